package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is a nested answer to a blog comment.
type Reply struct {
	ID        string              `bson:"id" json:"id"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Content   string              `bson:"content" json:"content"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// Comment is a blog comment with its replies, stored inside the blog document.
type Comment struct {
	ID        string              `bson:"id" json:"id"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Content   string              `bson:"content" json:"content"`
	Replies   []Reply             `bson:"replies" json:"replies"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Author      string             `bson:"author" json:"author"`
	Content     string             `bson:"content" json:"content"`
	CoverImage  string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Tags        StringList         `bson:"tags" json:"tags"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
