package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"autoparts-backoffice/internal/config"
	"autoparts-backoffice/internal/controller"
	"autoparts-backoffice/internal/middleware"
	"autoparts-backoffice/internal/rabbit"
	"autoparts-backoffice/internal/repository"
	"autoparts-backoffice/internal/service"
)

func main() {
	cfg := config.Load()

	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	logger := z.Sugar()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatalw("error conectando a RabbitMQ", "err", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalw("error creando canal en RabbitMQ", "err", err)
	}

	publisher, err := rabbit.NewPublisher(ch, logger)
	if err != nil {
		logger.Fatalw("error declarando exchange de eventos", "err", err)
	}

	// Repositorios y servicios
	orderRepo := repository.NewMongoOrderRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	orderService := service.NewOrderStatusService(orderRepo, publisher, logger)
	userService := service.NewUserService(userRepo, publisher, logger)
	authService := service.NewAuthService(cfg.AuthURL)

	// Handlers
	orderCtl := controller.NewOrderController(orderService)
	userCtl := controller.NewUserController(userService)

	// Router
	r := gin.Default()

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.GET("/orders/mine", orderCtl.GetMyOrders)
	auth.GET("/orders/:orderId", orderCtl.GetOrder)

	// Rutas admin
	admin := auth.Group("/")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", orderCtl.ListOrders)
	admin.PUT("/orders/:orderId/status", orderCtl.UpdateStatus)
	admin.POST("/orders/seed", orderCtl.SeedOrder)
	admin.GET("/users", userCtl.ListUsers)
	admin.PATCH("/users/:userId", userCtl.PatchUser)

	rabbit.SetupConsumers(ch, orderService, logger)

	// Ejecutar servidor
	logger.Infow("backoffice service ejecutándose", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal(err)
	}
}
