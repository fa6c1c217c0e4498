// Package live serves components to a browser.
//
// Each WebSocket connection gets its own component.Host, so every session
// runs on its own loop. Rendered trees are pushed as HTML frames; DOM
// events come back tagged with the hydration path (data-hid) of the
// element and are routed to the node's handler on the host loop.
//
// Server frames:
//
//	{"type":"render","id":"3","tag":"stock-price","html":"<stock-price>...</stock-price>"}
//	{"type":"remove","id":"3"}
//
// Client frames:
//
//	{"id":"3","hid":"0.0.1","event":"input","value":"MSFT"}
//	{"tag":"side-drawer","event":"open"}
//
// Routes: GET / (page), GET /ws, GET /metrics, GET /healthz.
package live
