package vehicle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

const tableVehicles = "vehicles"

var vehicleColumns = []string{
	"id",
	"brand",
	"model",
	"license_plate",
	"rental_rate",
	"mileage",
	"status",
	"updated_at",
}

// Repository репозиторий для работы с проекцией автомобилей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория автомобилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает автомобиль по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate получает автомобиль и, если запрос идет в транзакции,
// блокирует его строку до конца транзакции. Используется создателями бронирований
// как точка сериализации по одному автомобилю.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) get(ctx context.Context, id int64, forUpdate bool) (*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(vehicleColumns...).
		From(tableVehicles).
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var (
		v         domain.Vehicle
		status    string
		updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&v.Brand,
		&v.Model,
		&v.LicensePlate,
		&v.RentalRate,
		&v.Mileage,
		&status,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan vehicle: %w", ErrScanRow, err)
	}

	v.Status = domain.VehicleStatus(status)
	v.UpdatedAt = updatedAt.Time

	return &v, nil
}

// UpdateStatus выставляет статус автомобиля
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableVehicles).
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, query, args)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

// ReleaseIfIdle возвращает автомобиль в Available, только если он сейчас Rented
// и у него нет другого Active бронирования, кроме excludingBookingID.
// Статусы Maintenance, Unavailable и Banned не трогаются.
// Возвращает true, если статус был изменен.
func (r *Repository) ReleaseIfIdle(ctx context.Context, vehicleID, excludingBookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableVehicles).
		Set("status", string(domain.VehicleAvailable)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": vehicleID, "status": string(domain.VehicleRented)}).
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM bookings b WHERE b.vehicle_id = vehicles.id AND b.status = ? AND b.id <> ?)",
			string(domain.StatusActive), excludingBookingID,
		)).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ReleaseIfIdle - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, query, args)
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseIfIdle - execute update: %w", ErrExecQuery, err)
	}

	return affected > 0, nil
}

// UpdateMileage записывает пробег, только если он больше сохраненного.
// Пробег никогда не уменьшается; возвращает true, если значение изменилось.
func (r *Repository) UpdateMileage(ctx context.Context, id int64, mileage int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableVehicles).
		Set("mileage", mileage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Lt{"mileage": mileage}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpdateMileage - build update query: %w", ErrBuildQuery, err)
	}

	affected, err := r.exec(ctx, executor, query, args)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateMileage - execute update: %w", ErrExecQuery, err)
	}

	return affected > 0, nil
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
