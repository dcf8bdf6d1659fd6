// Package domain contains the core entities of the blog: users, articles,
// comments and site pages. These types carry the business rules (permission
// checks, derived fields) and are free of storage or transport concerns so
// they can be shared across packages.
package domain
