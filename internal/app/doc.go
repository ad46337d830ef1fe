// Package app is the composition root for stockboard.
//
// Run loads configuration and preferences, builds the logger, metrics
// registry, source client and state store, starts the synchronizer and then
// hands the terminal to the UI. When the UI exits (or the context is
// cancelled) the synchronizer is stopped before Run returns.
//
//	Run()
//	  ├─> config.Load + WithOverrides
//	  ├─> logging.New                  file logger
//	  ├─> source.NewClient             HTTP fetcher
//	  ├─> syncer.New + Start           polling loop writing state.Store
//	  └─> ui.Run                       reads state.Store (blocks)
//
// PrintOnce backs the print command: a single fetch rendered as a plain
// table, with the fallback dataset standing in when the fetch fails.
package app
