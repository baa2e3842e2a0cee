// Package recording drives the station camera through an ffmpeg command.
//
// The configured command carries a FILENAME placeholder that is replaced
// with a fresh path under the video directory for every recording. ffmpeg
// runs as a long-lived child process; Stop asks it to finish by writing "q"
// to its stdin and waits for the file to be flushed. Stops that arrive
// before the configured minimum duration are delayed rather than rejected.
package recording
