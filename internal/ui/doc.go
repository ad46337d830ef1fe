// Package ui renders the stock board in the terminal with Bubble Tea.
//
// The model never fetches on its own. It mirrors a state.Store, asks a
// Refresher for manual refreshes and reports focus, blur and suspend to a
// VisibilitySink so the synchronizer can pause polling while the board is
// hidden. Theme and product selection persist through the prefs package.
package ui
