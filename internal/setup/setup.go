package setup

import (
	"github.com/torchan-dev/torchan/internal/config"
	"github.com/torchan-dev/torchan/internal/handler"
	"github.com/torchan-dev/torchan/internal/jwt"
	"github.com/torchan-dev/torchan/internal/service"
	"github.com/torchan-dev/torchan/internal/storage/fs"
	"github.com/torchan-dev/torchan/internal/storage/pg"
	"github.com/torchan-dev/torchan/internal/utils"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Storage *pg.Storage
	Media   *fs.Storage
	Handler *handler.Handler
	Jwt     jwt.JwtService
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	media, err := fs.New(cfg.Public.MediaRoot)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	validator := &utils.PostValidator{}

	thread := service.NewThread(storage, media, validator, cfg)
	reply := service.NewReply(storage, media, validator)
	flood := service.NewFloodGuard(storage, cfg.Public.FloodWindow)
	moderation := service.NewModeration(jwtService, thread, reply)
	upload := service.NewUpload(media, cfg)

	h := handler.New(thread, reply, moderation, flood, upload, media, jwtService, cfg)
	h.SetPinger(storage)

	return &Dependencies{
		Storage: storage,
		Media:   media,
		Handler: h,
		Jwt:     jwtService,
	}, nil
}
