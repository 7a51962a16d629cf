package router

import (
	"net/http"
	"strings"
	"videotube-api/common"
	_ "videotube-api/docs"
	"videotube-api/handler"

	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const apiPrefix = "/api/v1"

// Handlers groups the resource handlers mounted by NewRouter.
type Handlers struct {
	Users         *handler.UserHandler
	Videos        *handler.VideoHandler
	Comments      *handler.CommentHandler
	Likes         *handler.LikeHandler
	Tweets        *handler.TweetHandler
	Playlists     *handler.PlaylistHandler
	Subscriptions *handler.SubscriptionHandler
	Health        http.Handler
}

func NewRouter(h Handlers, auth handler.TokenAuthenticator, corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	protected := handler.AuthMiddleware(auth)
	optional := handler.OptionalAuthMiddleware(auth)

	public := func(pattern string, fn func(http.ResponseWriter, *http.Request) *common.AppError) {
		mux.Handle(route(pattern), handler.ErrorHandlingMiddleware(fn))
	}
	private := func(pattern string, fn func(http.ResponseWriter, *http.Request) *common.AppError) {
		mux.Handle(route(pattern), protected(handler.ErrorHandlingMiddleware(fn)))
	}

	health := h.Health
	if health == nil {
		health = handler.NewHealthHandler(nil)
	}
	mux.Handle("GET /health", health)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Users
	public("POST /users/register", h.Users.Register)
	public("POST /users/login", h.Users.Login)
	public("POST /users/refresh-token", h.Users.RefreshToken)
	private("POST /users/logout", h.Users.Logout)
	private("GET /users/current-user", h.Users.CurrentUser)
	private("POST /users/change-password", h.Users.ChangePassword)
	private("PATCH /users/update-account", h.Users.UpdateAccount)
	private("PATCH /users/avatar", h.Users.UpdateAvatar)
	private("PATCH /users/cover-image", h.Users.UpdateCoverImage)
	private("GET /users/c/{username}", h.Users.ChannelProfile)
	private("GET /users/history", h.Users.WatchHistory)

	// Videos
	public("GET /videos", h.Videos.ListVideos)
	private("POST /videos", h.Videos.PublishVideo)
	mux.Handle(route("GET /videos/{videoId}"), optional(handler.ErrorHandlingMiddleware(h.Videos.GetVideo)))
	private("PATCH /videos/{videoId}", h.Videos.UpdateVideo)
	private("DELETE /videos/{videoId}", h.Videos.DeleteVideo)
	private("PATCH /videos/toggle/publish/{videoId}", h.Videos.TogglePublishStatus)

	// Comments
	private("GET /comments/{videoId}", h.Comments.GetVideoComments)
	private("POST /comments/{videoId}", h.Comments.AddComment)
	private("PATCH /comments/c/{commentId}", h.Comments.UpdateComment)
	private("DELETE /comments/c/{commentId}", h.Comments.DeleteComment)

	// Likes
	private("POST /likes/toggle/v/{videoId}", h.Likes.ToggleVideoLike)
	private("POST /likes/toggle/c/{commentId}", h.Likes.ToggleCommentLike)
	private("POST /likes/toggle/t/{tweetId}", h.Likes.ToggleTweetLike)
	private("GET /likes/videos", h.Likes.LikedVideos)

	// Tweets
	private("POST /tweets", h.Tweets.CreateTweet)
	private("GET /tweets/user/{userId}", h.Tweets.UserTweets)
	private("PATCH /tweets/{tweetId}", h.Tweets.UpdateTweet)
	private("DELETE /tweets/{tweetId}", h.Tweets.DeleteTweet)

	// Playlists
	private("POST /playlists", h.Playlists.CreatePlaylist)
	private("GET /playlists/user/{userId}", h.Playlists.UserPlaylists)
	public("GET /playlists/{playlistId}", h.Playlists.GetPlaylist)
	private("PATCH /playlists/{playlistId}", h.Playlists.UpdatePlaylist)
	private("DELETE /playlists/{playlistId}", h.Playlists.DeletePlaylist)
	private("PATCH /playlists/add/{videoId}/{playlistId}", h.Playlists.AddVideo)
	private("PATCH /playlists/remove/{videoId}/{playlistId}", h.Playlists.RemoveVideo)

	// Subscriptions
	private("POST /subscriptions/c/{channelId}", h.Subscriptions.ToggleSubscription)
	private("GET /subscriptions/c/{channelId}", h.Subscriptions.ChannelSubscribers)
	private("GET /subscriptions/u/{subscriberId}", h.Subscriptions.SubscribedChannels)

	return corsHandler(corsOrigin)(handler.LoggingMiddleware(mux))
}

// route prefixes the path part of a "METHOD /path" pattern with the API version.
func route(pattern string) string {
	method, path, _ := strings.Cut(pattern, " ")
	return method + " " + apiPrefix + path
}

// corsHandler allows credentialed requests from the configured origins (comma separated).
func corsHandler(origin string) func(http.Handler) http.Handler {
	origins := []string{}
	for _, o := range strings.Split(origin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
