// Package media provides the typed view over per-file metadata records
// produced by the external extraction tool.
//
// Each record carries the two fields the pipeline actually decides on — the
// capture instant and the camera serial — plus the file path and an opaque
// EXIF payload that travels through untouched. The camera serial is read
// from the embedded exifData column when present, falling back to the
// side-channel media_metadata.json dump keyed by file path.
//
// Records are immutable and carry no deployment association; linking is the
// linker's job.
package media
