// Package api implements the HTTP API server for the info service.
//
// The API serves two client types:
//
//   - Producers: infrastructure components publishing entity state
//     into shared documents
//   - Consumers (infoctl, factory daemons): polling documents and
//     collecting pairing credentials
//
// # Endpoints
//
// Documents:
//   - GET    /api/v1/documents/{key} - Read the full document
//   - POST   /api/v1/documents/{key} - Replace the document
//   - PUT    /api/v1/documents/{key} - Merge a fragment into the document
//   - DELETE /api/v1/documents/{key} - Clear the document
//
// Entities:
//   - GET    /api/v1/documents/{key}/entities/{name} - Read one entity
//   - POST   /api/v1/documents/{key}/entities/{name} - Create an entity
//   - PUT    /api/v1/documents/{key}/entities/{name} - Update attributes
//   - DELETE /api/v1/documents/{key}/entities/{name} - Remove an entity
//
// Pairing:
//   - POST /api/v1/pairing/{key} - File a pairing request
//   - GET  /api/v1/pairing/{key}/{code} - Collect the issued credential
//
// # Error Handling
//
// Errors return a JSON body with an "error" message and the HTTP
// status carried by the store error taxonomy. Internal errors are
// logged but not exposed to clients.
package api
