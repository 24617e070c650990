package model

import "time"

// User represents an application user record as stored in the
// `users` table. Users register with a username and password and
// receive a signed auth token in return. The json tags are omitted
// because this struct stays inside the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique username (1–255 chars).
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of registration (UTC).
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
}
