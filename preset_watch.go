// preset_watch.go - Hot reload of the preset file

package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// WatchPreset reloads the preset file whenever it changes on disk and
// delivers the parsed result on presets. Parse and validation failures
// go to errs and the previous preset stays in effect. The watcher
// shuts down when done is closed.
func WatchPreset(path string, presets chan<- *Preset, errs chan<- error, done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	go func() {
	loop:
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					break loop
				}
				// editors tend to rename over the file instead of writing in place
				if event.Op&(fsnotify.Write|fsnotify.Rename) > 0 {
					p, err := ReadPreset(path)
					if err != nil {
						// A consumer that already shut down must not
						// wedge the watcher on a full channel.
						select {
						case errs <- err:
						case <-done:
							break loop
						}
						continue loop
					}
					select {
					case presets <- p:
					case <-done:
						break loop
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					break loop
				}
				select {
				case errs <- err:
				case <-done:
					break loop
				}
			case <-done:
				break loop
			}
		}
		// ignore close error
		watcher.Close()
	}()
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return err
	}
	return nil
}
