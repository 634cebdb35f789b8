package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Agurato/filmdelegate/internal/model"
)

type MongoDB struct {
	ctx context.Context

	client *mongo.Client

	countersColl  *mongo.Collection
	usersColl     *mongo.Collection
	filmsColl     *mongo.Collection
	directorsColl *mongo.Collection
	castColl      *mongo.Collection
}

// MongoURI builds the connection URI from its parts
func MongoURI(dbUser, dbPassword, dbURL, dbPort string) string {
	if dbUser == "" {
		return fmt.Sprintf("mongodb://%s:%s", dbURL, dbPort)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s", dbUser, dbPassword, dbURL, dbPort)
}

// NewMongoDB connects to the database and checks it is reachable
func NewMongoDB(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("could not ping MongoDB: %w", err)
	}

	mongoDb := mongoClient.Database(dbName)
	m := &MongoDB{
		ctx:           ctx,
		client:        mongoClient,
		countersColl:  mongoDb.Collection("counters"),
		usersColl:     mongoDb.Collection("users"),
		filmsColl:     mongoDb.Collection("films"),
		directorsColl: mongoDb.Collection("directors"),
		castColl:      mongoDb.Collection("cast_members"),
	}
	if err := m.createIndexes(); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", dbName).Msg("Connected to MongoDB")
	return m, nil
}

const (
	singleOwnerIndex = "single_owner"
	usernameIndex    = "unique_name"
)

// createIndexes makes sure there is at most one owner, and that usernames are unique regardless of case
func (m MongoDB) createIndexes() error {
	_, err := m.usersColl.Indexes().CreateMany(m.ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "is_owner", Value: 1}},
			Options: options.Index().
				SetName(singleOwnerIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_owner": true}),
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().
				SetName(usernameIndex).
				SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
	})
	if err != nil {
		return fmt.Errorf("could not create users indexes: %w", err)
	}
	_, err = m.castColl.Indexes().CreateOne(m.ctx, mongo.IndexModel{Keys: bson.D{{Key: "film_id", Value: 1}}})
	if err != nil {
		return fmt.Errorf("could not create cast members index: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection
func (m MongoDB) Close() error {
	return m.client.Disconnect(m.ctx)
}

// Drop removes every collection used by the store
func (m MongoDB) Drop() error {
	for _, coll := range []*mongo.Collection{m.countersColl, m.usersColl, m.filmsColl, m.directorsColl, m.castColl} {
		if err := coll.Drop(m.ctx); err != nil {
			return err
		}
	}
	return nil
}

// nextID increments and returns the sequence of a collection
func (m MongoDB) nextID(collection string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := m.countersColl.FindOneAndUpdate(m.ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("could not get next %s ID: %w", collection, err)
	}
	return counter.Seq, nil
}

func caseInsensitive(value string) primitive.Regex {
	return primitive.Regex{Pattern: fmt.Sprintf("^%s$", regexp.QuoteMeta(value)), Options: "i"}
}

// IsOwnerPresent checks if theres is an owner in the server
func (m MongoDB) IsOwnerPresent() (bool, error) {
	countOwners, err := m.usersColl.CountDocuments(m.ctx, bson.M{"is_owner": true})
	if err != nil {
		return false, err
	}
	return countOwners > 0, nil
}

// IsUsernameAvailable returns true if the username (case insensitive) is not in use yet
func (m MongoDB) IsUsernameAvailable(username string) (bool, error) {
	count, err := m.usersColl.CountDocuments(m.ctx, bson.M{"name": caseInsensitive(username)})
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// GetUserFromName gets user from its name
func (m MongoDB) GetUserFromName(username string) (*model.User, error) {
	var user model.User
	err := m.usersColl.FindOne(m.ctx, bson.M{"name": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser adds a user to the database. The unique indexes reject a second owner and a taken name.
func (m MongoDB) CreateUser(user *model.User) (err error) {
	if user.ID, err = m.nextID("users"); err != nil {
		return err
	}
	_, err = m.usersColl.InsertOne(m.ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), singleOwnerIndex) {
			return model.ErrOwnerAlreadyExists
		}
		if strings.Contains(err.Error(), usernameIndex) {
			return model.ErrUsernameTaken
		}
	}
	return err
}

// SetUserPassword set a new password for a specific user
func (m MongoDB) SetUserPassword(userID int64, newPassword string) error {
	res, err := m.usersColl.UpdateOne(m.ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": newPassword}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// GetFilms returns every film
func (m MongoDB) GetFilms() (films []model.Film, err error) {
	filmsCur, err := m.filmsColl.Find(m.ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("error while retrieving films from DB: %w", err)
	}
	if err := filmsCur.All(m.ctx, &films); err != nil {
		return nil, fmt.Errorf("error while decoding films from DB: %w", err)
	}
	return films, nil
}

// GetFilmFromID returns a film from its ID
func (m MongoDB) GetFilmFromID(id int64) (*model.Film, error) {
	var film model.Film
	err := m.filmsColl.FindOne(m.ctx, bson.M{"_id": id}).Decode(&film)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrFilmNotFound
	}
	if err != nil {
		return nil, err
	}
	return &film, nil
}

// AddFilmWithCast adds a film and its cast to the DB and sets their IDs.
// If the cast cannot be inserted, the film and the part of the cast already inserted are removed.
func (m MongoDB) AddFilmWithCast(film *model.Film, cast []model.CastMember) error {
	if err := checkFilmWithCast(film, cast); err != nil {
		return err
	}

	filmID, err := m.nextID("films")
	if err != nil {
		return err
	}
	members := make([]model.CastMember, len(cast))
	for i, member := range cast {
		if member.ID, err = m.nextID("cast_members"); err != nil {
			return err
		}
		member.FilmID = filmID
		members[i] = member
	}

	inserted := *film
	inserted.ID = filmID
	if _, err := m.filmsColl.InsertOne(m.ctx, inserted); err != nil {
		return err
	}
	if len(members) > 0 {
		if _, err := m.castColl.InsertMany(m.ctx, lo.ToAnySlice(members)); err != nil {
			m.removeFilm(filmID)
			return fmt.Errorf("cannot add cast of film %d: %w", filmID, err)
		}
	}

	film.ID = filmID
	copy(cast, members)
	return nil
}

func (m MongoDB) removeFilm(filmID int64) {
	if _, err := m.castColl.DeleteMany(m.ctx, bson.M{"film_id": filmID}); err != nil {
		log.Error().Err(err).Int64("filmID", filmID).Msg("Could not remove cast of film")
	}
	if _, err := m.filmsColl.DeleteOne(m.ctx, bson.M{"_id": filmID}); err != nil {
		log.Error().Err(err).Int64("filmID", filmID).Msg("Could not remove film")
	}
}

// GetDirectorFromID returns a director from its ID
func (m MongoDB) GetDirectorFromID(id int64) (*model.Director, error) {
	var director model.Director
	err := m.directorsColl.FindOne(m.ctx, bson.M{"_id": id}).Decode(&director)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrDirectorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &director, nil
}

// GetDirectorFromName returns a director from its name (case insensitive)
func (m MongoDB) GetDirectorFromName(name string) (*model.Director, error) {
	var director model.Director
	err := m.directorsColl.FindOne(m.ctx, bson.M{"name": caseInsensitive(name)}).Decode(&director)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrDirectorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &director, nil
}

// AddDirector adds a director to the DB and sets its ID
func (m MongoDB) AddDirector(director *model.Director) (err error) {
	if director.ID, err = m.nextID("directors"); err != nil {
		return err
	}
	_, err = m.directorsColl.InsertOne(m.ctx, director)
	return err
}

// GetCastMembersFromFilmID returns the cast of a film
func (m MongoDB) GetCastMembersFromFilmID(filmID int64) (cast []model.CastMember, err error) {
	castCur, err := m.castColl.Find(m.ctx, bson.M{"film_id": filmID}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("error while retrieving cast of film %d from DB: %w", filmID, err)
	}
	if err := castCur.All(m.ctx, &cast); err != nil {
		return nil, fmt.Errorf("error while decoding cast of film %d from DB: %w", filmID, err)
	}
	return cast, nil
}
