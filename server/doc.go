// Package server exposes document ingestion, graph inspection, and entity
// search over a versioned REST API.
//
// Uploads are processed asynchronously: POST /v1/documents returns the
// pending document immediately and clients poll GET /v1/documents/:id
// until its status is completed or failed.
package server
