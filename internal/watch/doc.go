// Package watch rebuilds the site when its sources change.
//
// Directories are watched recursively with fsnotify. Events are debounced and
// feed a single rebuild worker, so builds never overlap; requests that arrive
// while a build runs collapse into one follow-up build. An optional interval
// schedules periodic rebuilds through gocron.
package watch
