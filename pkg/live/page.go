package live

// page is the shell served on GET /. Components are rendered server side
// and pushed over /ws; the script only swaps HTML and forwards events.
const page = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Quoteboard</title>
<style>
body { font-family: sans-serif; margin: 0; }
#bar { padding: 0.5rem 1rem; background: #3b013b; color: white; }
#bar button { background: none; border: none; color: white; font-size: 1.25rem; cursor: pointer; }
#app { padding: 1rem; display: grid; gap: 1rem; }
side-drawer:not([open]) .backdrop, side-drawer:not([open]) aside { display: none; }
side-drawer .backdrop { position: fixed; inset: 0; background: rgba(0, 0, 0, 0.75); }
side-drawer aside { position: fixed; top: 0; left: 0; width: 30rem; max-width: 80%; height: 100vh; background: #f5f5f5; z-index: 100; }
side-drawer .active { background: white; font-weight: bold; }
.lds-ring { display: inline-block; width: 40px; height: 40px; position: relative; }
.lds-ring div { position: absolute; width: 32px; height: 32px; margin: 4px; border: 4px solid #3b013b; border-radius: 50%; border-color: #3b013b transparent transparent transparent; animation: lds-ring 1.2s linear infinite; }
@keyframes lds-ring { to { transform: rotate(360deg); } }
tool-tip .text { display: none; }
tool-tip .text.active { display: block; }
tool-tip .icon { cursor: pointer; border-radius: 50%; background: #3b013b; color: white; padding: 0 0.4rem; }
stock-finder li { cursor: pointer; }
</style>
</head>
<body>
<div id="bar"><button data-open="side-drawer" aria-label="Menu">&#9776;</button> Quoteboard</div>
<div id="app"></div>
<script>
(function () {
  var app = document.getElementById("app");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");

  ws.onmessage = function (m) {
    var f = JSON.parse(m.data);
    var el = app.querySelector('[data-cid="' + f.id + '"]');
    if (f.type === "remove") {
      if (el) el.remove();
      return;
    }
    if (!el) {
      el = document.createElement("div");
      el.dataset.cid = f.id;
      app.appendChild(el);
    }
    var active = document.activeElement;
    var hid = active && el.contains(active) ? active.dataset.hid : null;
    var pos = hid && active.selectionStart != null ? active.selectionStart : null;
    el.innerHTML = f.html;
    if (hid) {
      var n = el.querySelector('[data-hid="' + hid + '"]');
      if (n) {
        n.focus();
        if (pos !== null && n.setSelectionRange) n.setSelectionRange(pos, pos);
      }
    }
  };

  function forward(e) {
    var opener = e.target.closest("[data-open]");
    if (opener && e.type === "click") {
      ws.send(JSON.stringify({ tag: opener.dataset.open, event: "open" }));
      return;
    }
    var t = e.target.closest("[data-hid]");
    if (!t) return;
    var on = (t.dataset.on || "").split(" ");
    if (on.indexOf(e.type) < 0) return;
    if (e.type === "submit") e.preventDefault();
    var root = t.closest("[data-cid]");
    if (!root) return;
    ws.send(JSON.stringify({
      id: root.dataset.cid,
      hid: t.dataset.hid,
      event: e.type,
      value: t.value == null ? "" : String(t.value)
    }));
  }

  ["click", "input", "submit"].forEach(function (type) {
    document.addEventListener(type, forward);
  });
})();
</script>
</body>
</html>
`
