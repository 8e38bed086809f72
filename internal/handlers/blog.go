package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type blogCreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug"`
	Author      string   `json:"author" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	CoverImage  string   `json:"coverImage"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
}

type blogUpdateRequest struct {
	Title       *string  `json:"title"`
	Slug        *string  `json:"slug"`
	Author      *string  `json:"author"`
	Content     *string  `json:"content"`
	CoverImage  *string  `json:"coverImage"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
}

type commentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content" binding:"required"`
}

/* =========================
   PUBLIC
========================= */

func GetBlogs(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /blogs"
		defer handlePanic(c, route)

		filter := bson.M{"isPublished": bson.M{"$ne": false}}
		if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
			filter["tags"] = bson.M{"$in": []string{tag}}
		}

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := storeContext(c)
		defer cancel()

		cursor, err := db.Collection("blogs").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		blogs := make([]models.Blog, 0)
		if err := cursor.All(ctx, &blogs); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, blogs)
	}
}

func GetBlogBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /blogs/:slug"
		defer handlePanic(c, route)

		blog, ok := findBlogBySlug(c, db, route)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, blog)
	}
}

/* =========================
   COMMENTS
========================= */

// AddBlogComment appends a comment sub-document with its own generated id.
// Works for both signed-in users and anonymous readers with a name.
func AddBlogComment(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /blogs/:slug/comments"
		defer handlePanic(c, route)

		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		name, userID := commentAuthor(c, db, req.Name)
		if name == "" {
			respondValidation(c, "name is required")
			return
		}

		blog, ok := findBlogBySlug(c, db, route)
		if !ok {
			return
		}

		comment := models.Comment{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			Content:   strings.TrimSpace(req.Content),
			Replies:   []models.Reply{},
			CreatedAt: time.Now(),
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		_, err := db.Collection("blogs").UpdateByID(ctx, blog.ID, bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"comment": comment})
	}
}

// AddBlogReply nests a reply under an existing comment.
func AddBlogReply(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /blogs/:slug/comments/:commentId/replies"
		defer handlePanic(c, route)

		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		name, userID := commentAuthor(c, db, req.Name)
		if name == "" {
			respondValidation(c, "name is required")
			return
		}

		commentID := strings.TrimSpace(c.Param("commentId"))

		reply := models.Reply{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			Content:   strings.TrimSpace(req.Content),
			CreatedAt: time.Now(),
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("blogs").UpdateOne(ctx,
			bson.M{"slug": strings.TrimSpace(c.Param("slug")), "comments.id": commentID},
			bson.M{
				"$push": bson.M{"comments.$.replies": reply},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondNotFound(c, "blog or comment not found")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"reply": reply})
	}
}

/* =========================
   ADMIN
========================= */

func CreateBlog(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/blogs"
		defer handlePanic(c, route)

		var req blogCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = slugify(req.Title)
		}
		if slug == "" {
			respondValidation(c, "slug could not be derived from title")
			return
		}

		isPublished := true
		if req.IsPublished != nil {
			isPublished = *req.IsPublished
		}

		now := time.Now()
		blog := models.Blog{
			Title:       strings.TrimSpace(req.Title),
			Slug:        slug,
			Author:      strings.TrimSpace(req.Author),
			Content:     req.Content,
			CoverImage:  strings.TrimSpace(req.CoverImage),
			Tags:        req.Tags,
			IsPublished: isPublished,
			Comments:    []models.Comment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("blogs").InsertOne(ctx, blog)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondConflict(c, "slug already in use")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.WithField("slug", slug).Info("[BLOG] blog created")
		c.JSON(http.StatusCreated, gin.H{"id": res.InsertedID, "slug": slug})
	}
}

func UpdateBlog(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/blogs/:id"
		defer handlePanic(c, route)

		blogID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		var req blogUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Title != nil {
			set["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Slug != nil {
			set["slug"] = slugify(*req.Slug)
		}
		if req.Author != nil {
			set["author"] = strings.TrimSpace(*req.Author)
		}
		if req.Content != nil {
			set["content"] = *req.Content
		}
		if req.CoverImage != nil {
			set["coverImage"] = strings.TrimSpace(*req.CoverImage)
		}
		if req.Tags != nil {
			set["tags"] = req.Tags
		}
		if req.IsPublished != nil {
			set["isPublished"] = *req.IsPublished
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("blogs").UpdateByID(ctx, blogID, bson.M{"$set": set})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondConflict(c, "slug already in use")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondNotFound(c, "blog not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog updated"})
	}
}

func DeleteBlog(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/blogs/:id"
		defer handlePanic(c, route)

		blogID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := db.Collection("blogs").DeleteOne(ctx, bson.M{"_id": blogID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondNotFound(c, "blog not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
	}
}

/* =========================
   HELPERS
========================= */

func findBlogBySlug(c *gin.Context, db *mongo.Database, route string) (models.Blog, bool) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondValidation(c, "invalid slug")
		return models.Blog{}, false
	}

	ctx, cancel := storeContext(c)
	defer cancel()

	var blog models.Blog
	err := db.Collection("blogs").FindOne(ctx, bson.M{"slug": slug}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondNotFound(c, "blog not found")
			return models.Blog{}, false
		}
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return models.Blog{}, false
	}

	if blog.Comments == nil {
		blog.Comments = []models.Comment{}
	}
	return blog, true
}

// commentAuthor resolves the display name for a comment: the signed-in
// user's account name when a token is present, the supplied name otherwise.
func commentAuthor(c *gin.Context, db *mongo.Database, fallback string) (string, *primitive.ObjectID) {
	value, ok := c.Get("userId")
	if ok {
		if userID, ok := value.(primitive.ObjectID); ok {
			ctx, cancel := storeContext(c)
			defer cancel()

			var user models.User
			if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err == nil {
				return user.Name, &userID
			}
		}
	}
	return strings.TrimSpace(fallback), nil
}
