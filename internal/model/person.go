package model

type Director struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

type CastMember struct {
	ID        int64  `bson:"_id"`
	FilmID    int64  `bson:"film_id"`
	Name      string `bson:"name"`
	Character string `bson:"character,omitempty" json:",omitempty"`
}
