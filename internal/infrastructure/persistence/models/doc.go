// Package models contains the GORM persistence models. Domain types carry no
// ORM concerns; each model here owns its table mapping and converts to and
// from its aggregate with ToDomain and FromDomain.
//
// Money columns are decimal(15,2). JSON columns use gorm.io/datatypes so the
// same model works on postgres (jsonb), mysql (json) and sqlite (text).
package models
