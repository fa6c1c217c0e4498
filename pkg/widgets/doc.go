// Package widgets contains the stock dashboard widgets:
//
//   - side-drawer: a slide-out drawer with navigation and contact tabs
//   - loading-spinner: a static ring animation
//   - stock-finder: symbol search that publishes the chosen symbol
//   - stock-price: shows the price of a symbol and refetches when a new
//     symbol is selected
//   - tool-tip: an icon that toggles an explanatory text
//
// stock-finder and stock-price only talk through the SymbolSelected
// channel.
package widgets
