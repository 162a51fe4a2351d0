// Package repository реализует хранилище данных на основе PostgreSQL
// для тарифных планов, подписок арендаторов, счётчиков потребления и
// строк инвойсов.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, различаемые сервисным слоем через errors.Is.
var (
	// ErrNotFound запрошенная строка отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrSlugTaken слаг плана уже занят.
	ErrSlugTaken = errors.New("plan slug already taken")
	// ErrConcurrentModification строка подписки изменена конкурентно:
	// ожидаемая версия не совпала при обновлении.
	ErrConcurrentModification = errors.New("subscription modified concurrently")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность схемы базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subscription_plans'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subscription_plans missing or query error: %w", err)
	}
	return nil
}
