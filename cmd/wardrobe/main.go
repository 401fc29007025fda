package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/craftline/wardrobe/config"
	"github.com/craftline/wardrobe/internal/account"
	"github.com/craftline/wardrobe/internal/adminapi"
	"github.com/craftline/wardrobe/internal/app"
	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/notify"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/internal/payment"
	"github.com/craftline/wardrobe/internal/review"
	"github.com/craftline/wardrobe/internal/slot"
	"github.com/craftline/wardrobe/internal/storeapi"
	"github.com/craftline/wardrobe/internal/webserver"
	"github.com/craftline/wardrobe/internal/wishlist"
	"github.com/craftline/wardrobe/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	cfile  = flag.String("c", "wardrobe.yml", "config file")
	initdb = flag.Bool("initdb", false, "migrate schema and seed defaults, then exit")
)

func main() {
	flag.Parse()
	cfg := config.LoadConfig(*cfile)
	a := app.Init(cfg)
	defer a.Release()

	if *initdb {
		a.InitDB()
		return
	}
	a.MigrateDB()

	db := a.DB()
	listCache := cache.New(5 * time.Minute)
	defer listCache.Stop()

	accountRepo := account.NewGormRepository(db)
	productRepo := catalog.NewGormRepository(db)
	cartRepo := cart.NewGormRepository(db)
	orderRepo := order.NewGormRepository(db)
	slotRepo := slot.NewGormRepository(db)
	reviewRepo := review.NewGormRepository(db)
	wishlistRepo := wishlist.NewGormRepository(db)

	accounts := account.NewService(accountRepo, cfg.Web.JwtSecret)
	products := catalog.NewService(productRepo, listCache)
	carts := cart.NewService(cartRepo, productRepo)
	slots := slot.NewRegistry(slotRepo)
	gateway := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.KeyID, cfg.Payment.Secret)
	verifier := payment.NewVerifier(cfg.Payment.Secret)
	orders := order.NewService(orderRepo, carts, products, slots, gateway, verifier,
		a.Settings(), a.Bus(), order.Config{
			ReviewTokenSecret: cfg.Web.JwtSecret,
		})
	reviews := review.NewService(reviewRepo, orders, products)
	wishlists := wishlist.NewService(wishlistRepo, productRepo)

	sink := notify.NewService(notify.NewSmtpMailer(cfg.Smtp), accountRepo, a.Settings())
	if err := sink.SubscribeBus(a.Bus()); err != nil {
		zap.S().Fatalf("subscribe notifications: %s", err)
	}

	server := webserver.New(cfg, db)
	storeapi.New(accounts, products, carts, orders, reviews, wishlists).Register(server.Echo())
	adminapi.New(products, orders, accountRepo,
		adminapi.NewGormOprLogRepository(db)).Register(server.Echo())

	a.StartScheduler()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown()
	})
	if err := g.Wait(); err != nil {
		zap.S().Errorf("server exit: %s", err)
		os.Exit(1)
	}
}
