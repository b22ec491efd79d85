// Package main provides the entry point of userservice, an identity and access
// control service. It registers users, authenticates them with username and
// password and issues signed bearer tokens carrying their roles and permissions.
// Protected routes of the fiber web service are checked against those authorities.
// Users, roles and permissions are persisted with gorm on sqlite, mysql or postgres.
package main
