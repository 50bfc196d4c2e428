package model

// RoleAdmin is the role claim required on administrative routes.  Tokens
// are issued by the identity service; this service only checks them.
const RoleAdmin = "ADMIN"
