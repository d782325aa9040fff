package configs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Kebijakan saldo saat pengeluaran melebihi kas yang tersedia.
const (
	BalancePolicyReject = "reject"
	BalancePolicyClamp  = "clamp"
)

type Config struct {
	AppName string
	Mode    string // debug | release
	Port    string

	CORSOrigins string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	JWTTTL    time.Duration

	TokenBlacklistTTLDays int
	CronBlacklistCleanup  string
	CronOverdueLoans      string

	// Finance
	BalancePolicy string
	DefaultLedger string

	// Dokumen: wajib catatan admin saat tolak / selesai
	DocumentRequireNoteOnReject   bool
	DocumentRequireNoteOnComplete bool

	// Penyimpanan file
	UploadDir       string
	PublicUploadURL string
	OSSEndpoint     string
	OSSAccessKey    string
	OSSSecretKey    string
	OSSBucket       string
	OSSPublicBase   string
	OSSPrefix       string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	AdminEmail    string
	AdminPassword string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() Config {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	}

	cfg := Load(viper.New())
	if cfg.JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	}
	return cfg
}

// Load membaca konfigurasi dari env melalui viper. Dipisah dari LoadEnv agar bisa diuji.
func Load(v *viper.Viper) Config {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_NAME", "desaku")
	v.SetDefault("APP_MODE", "debug")
	v.SetDefault("PORT", "3000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("TOKEN_BLACKLIST_TTL_DAYS", 7)
	v.SetDefault("CRON_BLACKLIST_CLEANUP", "0 3 * * *")
	v.SetDefault("CRON_OVERDUE_LOANS", "0 7 * * *")
	v.SetDefault("FINANCE_BALANCE_POLICY", BalancePolicyReject)
	v.SetDefault("FINANCE_DEFAULT_LEDGER", "Kas Desa")
	v.SetDefault("DOCUMENT_REQUIRE_NOTE_ON_REJECT", true)
	v.SetDefault("DOCUMENT_REQUIRE_NOTE_ON_COMPLETE", true)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_UPLOAD_URL", "/uploads")
	v.SetDefault("ALI_OSS_PREFIX", "desaku")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "no-reply@desaku.id")

	cfg := Config{
		AppName: v.GetString("APP_NAME"),
		Mode:    strings.ToLower(v.GetString("APP_MODE")),
		Port:    v.GetString("PORT"),

		CORSOrigins: v.GetString("CORS_ORIGINS"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		JWTSecret: strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTTTL:    time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,

		TokenBlacklistTTLDays: v.GetInt("TOKEN_BLACKLIST_TTL_DAYS"),
		CronBlacklistCleanup:  v.GetString("CRON_BLACKLIST_CLEANUP"),
		CronOverdueLoans:      v.GetString("CRON_OVERDUE_LOANS"),

		BalancePolicy: normalizePolicy(v.GetString("FINANCE_BALANCE_POLICY")),
		DefaultLedger: v.GetString("FINANCE_DEFAULT_LEDGER"),

		DocumentRequireNoteOnReject:   v.GetBool("DOCUMENT_REQUIRE_NOTE_ON_REJECT"),
		DocumentRequireNoteOnComplete: v.GetBool("DOCUMENT_REQUIRE_NOTE_ON_COMPLETE"),

		UploadDir:       v.GetString("UPLOAD_DIR"),
		PublicUploadURL: v.GetString("PUBLIC_UPLOAD_URL"),
		OSSEndpoint:     strings.TrimSpace(v.GetString("ALI_OSS_ENDPOINT")),
		OSSAccessKey:    strings.TrimSpace(v.GetString("ALI_OSS_ACCESS_KEY")),
		OSSSecretKey:    strings.TrimSpace(v.GetString("ALI_OSS_SECRET_KEY")),
		OSSBucket:       strings.TrimSpace(v.GetString("ALI_OSS_BUCKET")),
		OSSPublicBase:   strings.TrimSpace(v.GetString("ALI_OSS_PUBLIC_BASE")),
		OSSPrefix:       v.GetString("ALI_OSS_PREFIX"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		SMTPUser:     v.GetString("SMTP_USER"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		MailFrom:     v.GetString("MAIL_FROM"),

		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}
	return cfg
}

func normalizePolicy(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case BalancePolicyClamp:
		return BalancePolicyClamp
	default:
		return BalancePolicyReject
	}
}

// DSN Postgres dengan statement_timeout selaras timeout request.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=%s&options=-c statement_timeout=3000",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode, c.AppName,
	)
}

func (c Config) OSSEnabled() bool {
	return c.OSSEndpoint != "" && c.OSSAccessKey != "" && c.OSSSecretKey != "" && c.OSSBucket != ""
}

func (c Config) SMTPEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
