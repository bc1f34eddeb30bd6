package storage

import "context"

// MetadataStorage хранит состояние навигации клиента
type MetadataStorage interface {
	// SaveLocation сохраняет последний открытый маршрут
	SaveLocation(ctx context.Context, path string) error

	// GetLocation возвращает последний открытый маршрут.
	// Returns "" if nothing has been opened yet.
	GetLocation(ctx context.Context) (string, error)

	// SaveReturnPath запоминает маршрут, на который нужно вернуться после входа
	SaveReturnPath(ctx context.Context, path string) error

	// PopReturnPath возвращает и удаляет сохраненный маршрут возврата.
	// Returns "" if none was saved.
	PopReturnPath(ctx context.Context) (string, error)
}
