// Package watcher re-runs a callback when a transaction file changes.
//
// The watcher subscribes to the file's directory through fsnotify and waits
// until no event for the file has arrived for the debounce delay, so a
// burst of writes is processed once. Processing only reaches the callback
// when the file's SHA-256 differs from the last processed content, so
// touches and duplicate saves are ignored.
//
// Example usage:
//
//	w, err := watcher.New("baskets.csv", func(path string) error {
//		txs, err := dataset.Load(path)
//		if err != nil {
//			return err
//		}
//		report := miner.New(2).Rules(txs)
//		return output.Encode(os.Stdout, output.FormatTable, report, false)
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
