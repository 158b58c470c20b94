package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"machflow/pkg/logger"
	"machflow/pkg/metrics"
)

// SQLiteStore keeps every collection as a JSON document in a single kv table,
// the embedded analog of the dashboard's origin-local storage.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSQLiteStore(path string, logger logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("depo bağlantısı kurulamadı: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("depo bağlantısı test edilemedi: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.runMigrations(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) runMigrations() error {
	s.logger.Info("Depo migrationları başlatılıyor", map[string]interface{}{})

	query := `
    CREATE TABLE IF NOT EXISTS migrations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        applied_at TIMESTAMP NOT NULL
    )
    `
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error("Migration tablosu oluşturulamadı", map[string]interface{}{"error": err.Error()})
		return err
	}

	migrations := []struct {
		Name string
		Func func(*sql.DB) error
	}{
		{"create_kv_table", createKVTable},
	}

	for _, migration := range migrations {
		if err := s.applyMigration(migration.Name, migration.Func); err != nil {
			return fmt.Errorf("migration uygulanamadı %s: %w", migration.Name, err)
		}
	}

	return nil
}

func (s *SQLiteStore) applyMigration(name string, migrationFunc func(*sql.DB) error) error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = $1", name).Scan(&count); err != nil {
		s.logger.Error("Migration durumu kontrol edilemedi", map[string]interface{}{"name": name, "error": err.Error()})
		return err
	}

	if count > 0 {
		s.logger.Info("Migration zaten uygulanmış", map[string]interface{}{"name": name})
		return nil
	}

	s.logger.Info("Migration uygulanıyor", map[string]interface{}{"name": name})

	if err := migrationFunc(s.db); err != nil {
		s.logger.Error("Migration uygulanamadı", map[string]interface{}{"name": name, "error": err.Error()})
		return err
	}

	if _, err := s.db.Exec("INSERT INTO migrations (name, applied_at) VALUES ($1, $2)", name, time.Now()); err != nil {
		s.logger.Error("Migration kaydedilemedi", map[string]interface{}{"name": name, "error": err.Error()})
		return err
	}

	return nil
}

func createKVTable(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at TIMESTAMP NOT NULL
    )
    `
	_, err := db.Exec(query)
	return err
}

func (s *SQLiteStore) Get(key string, dest interface{}) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("get", key, time.Since(start))
	}()

	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrKeyNotFound
		}
		s.logger.Error("Anahtar okunamadı", map[string]interface{}{"key": key, "error": err.Error()})
		return fmt.Errorf("anahtar okunamadı: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("Bozuk JSON değeri, anahtar yok sayılıyor", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return ErrKeyNotFound
	}

	return nil
}

func (s *SQLiteStore) Set(key string, value interface{}) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("set", key, time.Since(start))
	}()

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Değer encode edilemedi", map[string]interface{}{"key": key, "error": err.Error()})
		return fmt.Errorf("değer encode edilemedi: %w", err)
	}

	query := `
    INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
    ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `
	if _, err := s.db.Exec(query, key, string(data), time.Now()); err != nil {
		s.logger.Error("Anahtar yazılamadı", map[string]interface{}{"key": key, "error": err.Error()})
		return fmt.Errorf("anahtar yazılamadı: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("delete", key, time.Since(start))
	}()

	if _, err := s.db.Exec("DELETE FROM kv WHERE key = $1", key); err != nil {
		s.logger.Error("Anahtar silinemedi", map[string]interface{}{"key": key, "error": err.Error()})
		return fmt.Errorf("anahtar silinemedi: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Has(key string) (bool, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kv WHERE key = $1", key).Scan(&count); err != nil {
		s.logger.Error("Anahtar kontrol edilemedi", map[string]interface{}{"key": key, "error": err.Error()})
		return false, fmt.Errorf("anahtar kontrol edilemedi: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
