package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/model"
)

const (
	itemsCollection = "items"
	usersCollection = "users"
	cartsCollection = "carts"
)

type itemDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Cost        float64            `bson:"cost"`
	Description string             `bson:"description"`
	ImageURL    string             `bson:"imageURL"`
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Password string             `bson:"password"`
}

// cartDocument keeps each line's item reference under _id, the layout the
// catalog front end already reads.
type cartDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	User  primitive.ObjectID `bson:"user"`
	Items []cartLineDocument `bson:"items"`
}

type cartLineDocument struct {
	Item  primitive.ObjectID `bson:"_id"`
	Count int                `bson:"count"`
}

// NewMongoRepositories builds MongoDB-backed repositories on database.
func NewMongoRepositories(database *mongo.Database) *Repositories {
	return &Repositories{
		Items: NewMongoItemRepository(database),
		Users: NewMongoUserRepository(database),
		Carts: NewMongoCartRepository(database),
	}
}

// EnsureMongoIndexes creates the unique indexes backing user name uniqueness
// and the one-cart-per-user rule.
func EnsureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := []struct {
		collection string
		field      string
	}{
		{usersCollection, "name"},
		{cartsCollection, "user"},
		{itemsCollection, "name"},
	}
	for _, idx := range indexes {
		_, err := database.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create %s.%s index: %w", idx.collection, idx.field, err)
		}
	}
	return nil
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// ---- items

type mongoItemRepository struct {
	coll *mongo.Collection
}

// NewMongoItemRepository builds a MongoDB-backed item repository.
func NewMongoItemRepository(database *mongo.Database) ItemRepository {
	return &mongoItemRepository{coll: database.Collection(itemsCollection)}
}

func (r *mongoItemRepository) List(ctx context.Context) ([]model.Item, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc itemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	item := doc.toModel()
	return &item, nil
}

func (r *mongoItemRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Item, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []model.Item{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *mongoItemRepository) find(ctx context.Context, filter interface{}) ([]model.Item, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

func (r *mongoItemRepository) Upsert(ctx context.Context, item *model.Item) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}
	update := bson.M{"$set": bson.M{
		"cost":        item.Cost.InexactFloat64(),
		"description": item.Description,
		"imageURL":    item.ImageURL,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var before itemDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"name": item.Name}, update, opts).Decode(&before)
	created := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !created {
		return false, mongoErr(err)
	}
	if !created {
		item.ID = before.ID.Hex()
		return false, nil
	}

	var after itemDocument
	if err := r.coll.FindOne(ctx, bson.M{"name": item.Name}).Decode(&after); err != nil {
		return true, mongoErr(err)
	}
	item.ID = after.ID.Hex()
	return true, nil
}

func (doc itemDocument) toModel() model.Item {
	return model.Item{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Cost:        decimal.NewFromFloat(doc.Cost),
		Description: doc.Description,
		ImageURL:    doc.ImageURL,
	}
}

// ---- users

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed user repository.
func NewMongoUserRepository(database *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: database.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	doc := userDocument{ID: primitive.NewObjectID(), Name: user.Name, Password: user.PasswordHash}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mongoErr(err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter interface{}) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return &model.User{ID: doc.ID.Hex(), Name: doc.Name, PasswordHash: doc.Password}, nil
}

// ---- carts

type mongoCartRepository struct {
	coll *mongo.Collection
}

// NewMongoCartRepository builds a MongoDB-backed cart repository.
func NewMongoCartRepository(database *mongo.Database) CartRepository {
	return &mongoCartRepository{coll: database.Collection(cartsCollection)}
}

func (r *mongoCartRepository) FindByUserID(ctx context.Context, userID string) (*model.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc cartDocument
	if err := r.coll.FindOne(ctx, bson.M{"user": uid}).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoCartRepository) ReplaceItems(ctx context.Context, userID string, items []model.CartItem) (*model.Cart, error) {
	cart := &model.Cart{UserID: userID, Items: items}
	if err := cart.Validate(); err != nil {
		return nil, err
	}

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, &model.ValidationError{Record: "cart", Field: "UserID", Reason: "UserID is not an object id"}
	}
	lines := make([]cartLineDocument, 0, len(items))
	for _, it := range items {
		oid, err := primitive.ObjectIDFromHex(it.ItemID)
		if err != nil {
			return nil, &model.ValidationError{Record: "cart", Field: "ItemID", Reason: fmt.Sprintf("ItemID %q is not an object id", it.ItemID)}
		}
		lines = append(lines, cartLineDocument{Item: oid, Count: it.Count})
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc cartDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"user": uid}, bson.M{"$set": bson.M{"items": lines}}, opts).Decode(&doc)
	if err != nil {
		return nil, mongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoCartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"user": uid})
	return mongoErr(err)
}

func (doc cartDocument) toModel() *model.Cart {
	items := make([]model.CartItem, 0, len(doc.Items))
	for _, line := range doc.Items {
		items = append(items, model.CartItem{ItemID: line.Item.Hex(), Count: line.Count})
	}
	return &model.Cart{ID: doc.ID.Hex(), UserID: doc.User.Hex(), Items: items}
}
