package model

// User is an account allowed to log in
type User struct {
	ID       int64  `bson:"_id"`
	Name     string `bson:"name"`
	Password string `bson:"password" json:"-"`
	IsOwner  bool   `bson:"is_owner"`
	IsAdmin  bool   `bson:"is_admin"`
}
