package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/handlers"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
)

type Deps struct {
	Guard *authmw.Guard

	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	VideoHandler        *handlers.VideoHandler
	CommentHandler      *handlers.CommentHandler
	PlaylistHandler     *handlers.PlaylistHandler
	TweetHandler        *handlers.TweetHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	LikeHandler         *handlers.LikeHandler
	ChannelHandler      *handlers.ChannelHandler
	SearchHandler       *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")
	requireAuth := d.Guard.RequireAuth

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout, requireAuth)

	users := v1.Group("/users", requireAuth)
	users.GET("/me", d.UserHandler.GetCurrentUser)
	users.PATCH("/me", d.UserHandler.UpdateDetails)
	users.PATCH("/me/password", d.UserHandler.ChangePassword)
	users.PATCH("/me/avatar", d.UserHandler.UpdateAvatar)
	users.PATCH("/me/cover-image", d.UserHandler.UpdateCoverImage)
	users.GET("/:userId/tweets", d.TweetHandler.ListByUser)
	users.GET("/:userId/playlists", d.PlaylistHandler.ListByUser)

	videos := v1.Group("/videos")
	videos.GET("", d.VideoHandler.List)
	videos.GET("/search", d.SearchHandler.Search)
	videos.GET("/:videoId", d.VideoHandler.GetByID)
	videos.GET("/:videoId/comments", d.CommentHandler.ListByVideo)
	videos.POST("", d.VideoHandler.Upload, requireAuth)
	videos.PATCH("/:videoId", d.VideoHandler.UpdateDetails, requireAuth)
	videos.PATCH("/:videoId/thumbnail", d.VideoHandler.UpdateThumbnail, requireAuth)
	videos.PATCH("/:videoId/publish", d.VideoHandler.TogglePublish, requireAuth)
	videos.DELETE("/:videoId", d.VideoHandler.Delete, requireAuth)
	videos.POST("/:videoId/comments", d.CommentHandler.Add, requireAuth)

	comments := v1.Group("/comments", requireAuth)
	comments.PATCH("/:commentId", d.CommentHandler.Update)
	comments.DELETE("/:commentId", d.CommentHandler.Delete)

	playlists := v1.Group("/playlists")
	playlists.GET("/:playlistId", d.PlaylistHandler.GetByID)
	playlists.GET("/:playlistId/videos", d.PlaylistHandler.ListVideos)
	playlists.POST("", d.PlaylistHandler.Create, requireAuth)
	playlists.PATCH("/:playlistId", d.PlaylistHandler.Update, requireAuth)
	playlists.DELETE("/:playlistId", d.PlaylistHandler.Delete, requireAuth)
	playlists.POST("/:playlistId/videos/:videoId", d.PlaylistHandler.AddVideo, requireAuth)
	playlists.DELETE("/:playlistId/videos/:videoId", d.PlaylistHandler.RemoveVideo, requireAuth)

	tweets := v1.Group("/tweets", requireAuth)
	tweets.POST("", d.TweetHandler.Create)
	tweets.PATCH("/:tweetId", d.TweetHandler.Update)
	tweets.DELETE("/:tweetId", d.TweetHandler.Delete)

	subscriptions := v1.Group("/subscriptions", requireAuth)
	subscriptions.GET("/channels", d.SubscriptionHandler.SubscribedChannels)
	subscriptions.POST("/:channelId", d.SubscriptionHandler.Toggle)

	likes := v1.Group("/likes", requireAuth)
	likes.POST("/videos/:videoId", d.LikeHandler.ToggleVideoLike)
	likes.POST("/comments/:commentId", d.LikeHandler.ToggleCommentLike)
	likes.POST("/tweets/:tweetId", d.LikeHandler.ToggleTweetLike)

	channels := v1.Group("/channels", requireAuth)
	channels.GET("/@:username", d.ChannelHandler.GetChannel)
}
