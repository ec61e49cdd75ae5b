package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"github.com/wneessen/go-mail"

	"contactbox/internal/api"
	"contactbox/internal/mailer"
	"contactbox/internal/repository"
	"contactbox/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "postgres")
	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnvInt("SMTP_PORT", 587)
	smtpUser := getEnv("SMTP_USER", "")
	smtpPassword := getEnv("SMTP_PASSWORD", "")
	mailFrom := getEnv("MAIL_FROM", "noreply@example.com")
	mailAdmin := getEnv("MAIL_ADMIN", "admin@example.com")

	connStr := "host=" + dbHost +
		" port=" + dbPort +
		" user=" + dbUser +
		" password=" + dbPassword +
		" dbname=" + dbName +
		" sslmode=disable"
	repo, err := repository.NewPostgresRepo(connStr)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Connected to PostgreSQL")

	redisAddr := redisHost + ":" + redisPort
	ledgerClient := initRedis(redisAddr, redisPassword)
	ledger := &RedisLedger{client: ledgerClient}
	log.Println("Connected to Redis")

	transport := &SMTPTransport{
		host:     smtpHost,
		port:     smtpPort,
		user:     smtpUser,
		password: smtpPassword,
	}
	emails, err := mailer.NewEmailService(transport, mailFrom, mailAdmin)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	dispatcher := service.NewDispatcher(emails, ledger, 64)
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("Failed to start email dispatcher: %v", err)
	}
	serv := service.NewMessageService(repo, dispatcher)

	r := gin.Default()
	r.Use(cors.Default())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handler := api.NewAPIHandler(serv)
	messages := r.Group("/api/messages")
	{
		messages.POST("/push", handler.SaveMessage)
		messages.PUT("/:id", handler.UpdateMessage)
		messages.GET("/:id", handler.GetMessageByID)
		messages.GET("/email/:email", handler.GetMessageByEmail)
		messages.GET("/fingerprint/:fingerprint", handler.GetMessageByFingerprint)
		messages.GET("", handler.GetAllMessages)
		messages.DELETE("/:id", handler.DeleteMessage)
	}

	port := getEnv("PORT", "8080")
	log.Printf("Server starting on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func getEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var n int
	if _, err := fmt.Sscanf(val, "%d", &n); err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return n
}

// RedisLedger records which messages had their notification emails
// dispatched, keyed by message id.
type RedisLedger struct {
	client *redis.Client
}

func (rl *RedisLedger) StoreNotified(messageID string, sentAt time.Time) error {
	ctx := context.Background()
	return rl.client.Set(ctx, "notified:"+messageID, sentAt.Format(time.RFC3339), 0).Err()
}

func initRedis(addr string, password string) *redis.Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	}
	client := redis.NewClient(opts)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	return client
}

// SMTPTransport delivers rendered emails over SMTP.
type SMTPTransport struct {
	host     string
	port     int
	user     string
	password string
}

func (t *SMTPTransport) Send(from, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(t.host,
		mail.WithPort(t.port),
		mail.WithUsername(t.user),
		mail.WithPassword(t.password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client.DialAndSend(msg)
}
