package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/scsmith60/messhall/internal/auth"
	"github.com/scsmith60/messhall/internal/autosave"
	"github.com/scsmith60/messhall/internal/cache"
	"github.com/scsmith60/messhall/internal/config"
	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/editor"
	"github.com/scsmith60/messhall/internal/importer"
	"github.com/scsmith60/messhall/internal/logger"
	"github.com/scsmith60/messhall/internal/media"
	"github.com/scsmith60/messhall/internal/model"
	"github.com/scsmith60/messhall/internal/render"
	"github.com/scsmith60/messhall/internal/repository"
	"github.com/scsmith60/messhall/internal/routes"
	"github.com/scsmith60/messhall/internal/sse"
	"github.com/scsmith60/messhall/internal/theme"
	"github.com/scsmith60/messhall/internal/user"
	"github.com/scsmith60/messhall/internal/util"
)

//go:embed static/* templates/*
var content embed.FS

var appLogger zerolog.Logger

var clients = sse.NewSSEClients()

var recipeRepo repository.RecipeRepository
var commentRepo repository.CommentRepository
var notificationRepo repository.NotificationRepository
var sponsoredRepo repository.SponsoredRepository

var authProvider auth.AuthProvider
var editorManager *editor.Manager

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file loaded")
	}

	configPath := os.Getenv("MESSHALL_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	appLogger = logger.New(cfg.Logging.Level)
	for name, set := range map[string]func(zerolog.Logger){
		"config":     config.SetLogger,
		"db":         db.SetLogger,
		"repository": repository.SetLogger,
		"auth":       auth.SetLogger,
		"autosave":   autosave.SetLogger,
		"editor":     editor.SetLogger,
		"render":     render.SetLogger,
		"media":      media.SetLogger,
		"importer":   importer.SetLogger,
	} {
		set(appLogger.With().Str("component", name).Logger())
	}

	database := openDatabase(cfg)
	if err := database.InitDB(); err != nil {
		appLogger.Fatal().Err(err).Msg("Error initializing database")
	}
	defer database.Close()

	recipeRepo = repository.NewDBRecipeRepository(database)
	commentRepo = repository.NewDBCommentRepository(database)
	notificationRepo = repository.NewDBNotificationRepository(database)
	sponsoredRepo = repository.NewDBSponsoredRepository(database)
	userRepo := user.NewDBUserRepository(database)

	mediaStore := openMediaStore(cfg)

	clerkProvider := auth.NewClerkAuthProvider(os.Getenv("CLERK_API"), userRepo)
	tokenProvider, err := auth.NewDeviceTokenProvider(os.Getenv("MESSHALL_JWT_SECRET"), 30*24*time.Hour)
	if err != nil {
		appLogger.Warn().Err(err).Msg("Device token provider disabled")
	}

	switch cfg.Features.Authentication.Type {
	case "token":
		if tokenProvider == nil {
			appLogger.Fatal().Msg("Token auth selected but MESSHALL_JWT_SECRET is not set")
		}
		authProvider = tokenProvider
	default:
		authProvider = clerkProvider
	}

	editorManager = editor.NewManager(editor.ManagerConfig{
		Recipes:      recipeRepo,
		Clients:      clients,
		Debounce:     time.Duration(cfg.Editor.DebounceMS) * time.Millisecond,
		SavedDisplay: time.Duration(cfg.Editor.SavedDisplayMS) * time.Millisecond,
		SessionTTL:   time.Duration(cfg.Editor.SessionTTLMinutes) * time.Minute,
	})

	editorHandler := editor.NewHandler(editorManager, authProvider)
	mediaHandler := media.NewHandler(mediaStore, authProvider, cfg.Media.MaxUploadMB)
	mirror := importer.NewImageMirror(mediaStore, cfg.Media.MaxUploadMB)

	// Calculate the hash of static content
	static, _ := fs.Sub(content, config.StaticLocalDir)
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if !d.IsDir() {
			cache.SetStaticHash(config.StaticURLPath+path, util.ContentHash([]byte(path)))
		}
		return nil
	})

	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.Handle(config.StaticURLPath, http.StripPrefix(config.StaticURLPath, http.FileServer(http.FS(static))))
	if fsStore, ok := mediaStore.(*media.FSStore); ok {
		mux.Handle(config.MediaURLPath, http.StripPrefix(config.MediaURLPath, http.FileServer(http.Dir(fsStore.Dir()))))
	}

	mux.HandleFunc(routes.SharePage, serveShare)
	mux.HandleFunc(routes.SyntaxThemeGet, serveSyntaxThemeGetTheme)
	mux.HandleFunc(routes.SSEPath, eventsHandler)

	mux.HandleFunc(routes.APIFeed, serveFeed)
	mux.HandleFunc(routes.APISearch, serveSearch)

	mux.HandleFunc(routes.APIRecipeCreate, handleRecipeCreate)
	mux.HandleFunc(routes.APIRecipeRecent, handleRecipeRecent)
	mux.HandleFunc(routes.APIRecipeGet, handleRecipeGet)
	mux.HandleFunc(routes.APIRecipeDelete, handleRecipeDelete)

	mux.HandleFunc(routes.APIEditOpen, editorHandler.HandleOpen)
	mux.HandleFunc(routes.APIEditApply, editorHandler.HandleApply)
	mux.HandleFunc(routes.APIEditStatus, editorHandler.HandleStatus)
	mux.HandleFunc(routes.APIEditClose, editorHandler.HandleClose)

	if cfg.Features.Comments.Enabled {
		mux.HandleFunc(routes.APICommentList, handleCommentList)
		mux.HandleFunc(routes.APICommentAdd, handleCommentAdd)
		mux.HandleFunc(routes.APICommentDelete, handleCommentDelete)
	}
	if cfg.Features.Notifications.Enabled {
		mux.HandleFunc(routes.APINotifications, handleNotificationList)
		mux.HandleFunc(routes.APINotificationsRead, handleNotificationsRead)
	}

	mux.HandleFunc(routes.APIImport, handleImport(mirror))
	mux.HandleFunc(routes.APIExport, handleExport)
	mux.HandleFunc(routes.APIImages, mediaHandler.HandleUpload)

	mux.HandleFunc(routes.WebhookUser, clerkProvider.HandleWebhookUser)
	if tokenProvider != nil {
		tokenHandler := auth.NewDeviceTokenHandler(authProvider, tokenProvider)
		mux.HandleFunc(routes.AuthDeviceToken, tokenHandler.HandleMint)
	}

	go recipeRepo.Init()
	recipeRepo.SetReloadNotifier(handleReloadRecipe)

	securedMux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == routes.RobotsPath { // Ignore robots.txt
			mux.ServeHTTP(w, r)
		} else {
			secureHeaders(mux.ServeHTTP)(w, r)
		}
	})

	authMux := authProvider.WithHeaderAuthorization()(securedMux)

	srv := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: cacheIt(authMux.ServeHTTP),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		editorManager.RunJanitor(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		appLogger.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error().Err(err).Msg("Server shutdown error")
		}

		editorManager.CloseAll()
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Fatal().Err(err).Msg("Server error")
	}
}

func openDatabase(cfg *config.Config) db.DB {
	switch cfg.Database.Driver {
	case "postgres":
		dsn := os.Getenv("MESSHALL_DATABASE_DSN")
		if dsn == "" {
			dsn = cfg.Database.DSN
		}
		if dsn == "" {
			appLogger.Fatal().Msg("Postgres selected but no DSN configured")
		}
		return db.NewPostgres(dsn)
	default:
		return db.NewSQLite(cfg.Database.Path)
	}
}

func openMediaStore(cfg *config.Config) media.Store {
	switch cfg.Media.Provider {
	case "s3":
		return media.NewS3Store(
			os.Getenv("S3_ACCESS_KEY_ID"),
			os.Getenv("S3_ACCESS_KEY_SECRET"),
			os.Getenv("S3_ENDPOINT"),
			cfg.Media.Bucket,
			cfg.Media.PublicBaseURL,
		)
	default:
		store, err := media.NewFSStore(cfg.Media.Dir, cfg.Media.PublicBaseURL)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("Error opening media directory")
		}
		return store
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLogger.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeRepoError maps repository sentinels onto status codes.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrNotOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, repository.ErrBadCursor):
		http.Error(w, "Bad cursor", http.StatusBadRequest)
	default:
		appLogger.Error().Err(err).Msg("Request failed")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
	}
}

func serveShare(w http.ResponseWriter, r *http.Request) {
	recipe, err := recipeRepo.GetRecipe(model.RecipeID(r.PathValue("id")))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if recipe.Private {
		userID, err := authProvider.GetUserIDFromSession(r)
		if err != nil || userID != recipe.Owner {
			// Private recipes are indistinguishable from missing ones.
			http.NotFound(w, r)
			return
		}
	}

	htmlBody, _ := render.RenderMarkdownCached([]byte(recipe.Body), recipe.BodyHash, theme.GetSyntaxThemeFromRequest(r))

	tmpl, err := template.ParseFS(content,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateShare,
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		*model.PageData
		Recipe *model.Recipe
		Body   template.HTML
	}{
		PageData: model.NewPageData(r),
		Recipe:   recipe,
		Body:     template.HTML(htmlBody),
	}

	w.Header().Set(config.HETag, util.ContentHashString(recipe.BodyHash+data.Theme+data.SyntaxTheme))

	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func serveFeed(w http.ResponseWriter, r *http.Request) {
	cfg := config.AppConfig

	limit := cfg.Feed.PageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	cards, next, err := recipeRepo.Feed(r.URL.Query().Get("cursor"), limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	var slots []model.SponsoredSlot
	if cfg.Features.Sponsored.Enabled && cfg.Feed.SponsoredEvery > 0 {
		slots, err = sponsoredRepo.ActiveSlots(time.Now().UTC())
		if err != nil {
			appLogger.Error().Err(err).Msg("Error loading sponsored slots")
		}
	}

	writeJSON(w, http.StatusOK, model.FeedPage{
		Items:      interleaveSponsored(cards, slots, cfg.Feed.SponsoredEvery),
		NextCursor: next,
	})
}

// interleaveSponsored inserts one sponsored slot after every N recipe
// cards, cycling through the active slots.
func interleaveSponsored(cards []model.RecipeCard, slots []model.SponsoredSlot, every int) []model.FeedItem {
	items := make([]model.FeedItem, 0, len(cards))
	slot := 0

	for i := range cards {
		items = append(items, model.FeedItem{Kind: model.FeedItemRecipe, Recipe: &cards[i]})
		if every > 0 && len(slots) > 0 && (i+1)%every == 0 {
			s := slots[slot%len(slots)]
			items = append(items, model.FeedItem{Kind: model.FeedItemSponsored, Sponsored: &s})
			slot++
		}
	}
	return items
}

func serveSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q required", http.StatusBadRequest)
		return
	}

	cards, err := recipeRepo.Search(query, config.AppConfig.Feed.PageSize)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func handleRecipeCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}

	recipe := recipeRepo.NewRecipe()
	recipe.Owner = userID
	recipe.Title = req.Title
	recipe.Private = true // new recipes start as drafts

	if err := recipeRepo.SaveRecipe(recipe); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	recipe, err := recipeRepo.GetRecipe(model.RecipeID(r.PathValue("id")))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	if recipe.Private {
		userID, err := authProvider.GetUserIDFromSession(r)
		if err != nil || userID != recipe.Owner {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
	}
	writeJSON(w, http.StatusOK, recipe)
}

func handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	if err := recipeRepo.DeleteRecipe(model.RecipeID(r.PathValue("id")), userID); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleRecipeRecent(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	cards, err := recipeRepo.Recent(userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func handleCommentList(w http.ResponseWriter, r *http.Request) {
	recipeID := model.RecipeID(r.PathValue("id"))
	if _, err := recipeRepo.GetRecipe(recipeID); err != nil {
		writeRepoError(w, err)
		return
	}

	comments, err := commentRepo.ListComments(recipeID)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func handleCommentAdd(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Body == "" {
		http.Error(w, "body required", http.StatusBadRequest)
		return
	}

	recipeID := model.RecipeID(r.PathValue("id"))
	owner, err := recipeRepo.OwnerOf(recipeID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	comment, err := commentRepo.AddComment(recipeID, userID, req.Body)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	// Commenting on your own recipe makes no notification.
	if owner != userID && config.AppConfig.Features.Notifications.Enabled {
		err := notificationRepo.Append(&model.Notification{
			Recipient: owner,
			Kind:      model.NotificationComment,
			RecipeID:  recipeID,
			Actor:     userID,
			Body:      req.Body,
		})
		if err != nil {
			appLogger.Error().Err(err).Msg("Error appending comment notification")
		}
	}

	go clients.Broadcast(recipeID, sse.ReloadEvent())

	writeJSON(w, http.StatusCreated, comment)
}

func handleCommentDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	if err := commentRepo.DeleteComment(model.CommentID(r.PathValue("id")), userID); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleNotificationList(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "since must be RFC 3339", http.StatusBadRequest)
			return
		}
	}

	notifications, err := notificationRepo.ListSince(userID, since)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func handleNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	var req struct {
		IDs []model.NotificationID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if err := notificationRepo.MarkRead(userID, req.IDs); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// captureRequest is the payload of a client-side capture: the client
// supplies the metadata, the server mirrors the image and creates a
// private draft. No scraping happens here.
type captureRequest struct {
	SourceURL string `json:"source_url"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
}

func handleImport(mirror *importer.ImageMirror) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authProvider.EnforceUserAndGetID(w, r)
		if err != nil {
			return
		}

		var req captureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if req.Title == "" || req.SourceURL == "" {
			http.Error(w, "title and source_url required", http.StatusBadRequest)
			return
		}

		recipe := recipeRepo.NewRecipe()
		recipe.Owner = userID
		recipe.Title = req.Title
		recipe.Body = req.Caption
		recipe.SourceURL = req.SourceURL
		recipe.Private = true

		if req.ImageURL != "" {
			url, err := mirror.Mirror(r.Context(), req.ImageURL, userID)
			if err != nil {
				// The draft is still worth keeping without its image.
				appLogger.Warn().Err(err).Str("image", req.ImageURL).Msg("Image mirror failed")
			} else {
				recipe.ImageURL = url
			}
		}

		if err := recipeRepo.SaveRecipe(recipe); err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, recipe)
	}
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	userID, err := authProvider.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	cards, err := recipeRepo.Recent(userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	recipes := make([]*model.Recipe, 0, len(cards))
	for _, card := range cards {
		recipe, err := recipeRepo.GetRecipe(card.ID)
		if err != nil {
			continue
		}
		recipes = append(recipes, recipe)
	}

	archive, err := importer.ExportArchive(recipes)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	w.Header().Set(config.HCType, "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="recipes.zip"`)
	w.Write(archive)
}

func serveSyntaxThemeGetTheme(w http.ResponseWriter, r *http.Request) {
	themeStyle := []byte(theme.GenerateSyntaxCSS(r.PathValue("theme")))
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	recipeID := r.URL.Query().Get("recipe")
	if recipeID == "" {
		http.Error(w, "Recipe parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, config.CTypeEventStream)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	client := &sse.Client{
		Msg:      make(chan string),
		RecipeID: model.RecipeID(recipeID),
	}

	clients.Add(client)
	appLogger.Debug().Str("recipe", recipeID).Msg("SSE client connected")

	defer func() {
		clients.Delete(client)
		appLogger.Debug().Str("recipe", recipeID).Msg("SSE client disconnected")
	}()

	notify := r.Context().Done()
	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

func handleReloadRecipe(recipeID model.RecipeID) {
	go clients.Broadcast(recipeID, sse.ReloadEvent())
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		h(w, r)
	}
}
