// Package models defines the client-side data model of the ERP desk: the
// session tokens and their decoded claims, recruitment candidates with their
// stage history, and the top-level ERP modules.
package models
