package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

const tableBookings = "bookings"

// PostgreSQL коды ошибок ограничений
const (
	pqCodeExclusionViolation = "23P01"
	pqCodeCheckViolation     = "23514"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"vehicle_id",
	"booking_date",
	"return_date",
	"actual_return_date",
	"start_mileage",
	"end_mileage",
	"total_amount",
	"late_fee",
	"status",
	"created_at",
	"updated_at",
}

var returningColumns = "RETURNING " + strings.Join(bookingColumns, ", ")

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование в статусе, указанном в booking (обычно Pending).
// Если в контексте передана активная транзакция, использует её.
// Пересечение с другим блокирующим бронированием отсекается exclusion-ограничением
// и возвращается как ErrOverlappingBooking.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"user_id",
			"vehicle_id",
			"booking_date",
			"return_date",
			"start_mileage",
			"total_amount",
			"status",
		).
		Values(
			booking.UserID,
			booking.VehicleID,
			booking.BookingDate,
			booking.ReturnDate,
			booking.StartMileage,
			booking.TotalAmount,
			string(booking.Status),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, mapWriteError("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByIDForUpdate получает бронирование для смены статуса.
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции.
// Если ownerID задан, бронирование ищется только среди бронирований этого пользователя,
// чужое бронирование возвращается как ErrBookingNotFound.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64, ownerID *int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if ownerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *ownerID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForUpdate - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForUpdate - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC", "id DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByVehicleWithFilter получает бронирования автомобиля.
// Поддерживает фильтрацию по:
// - Статусам (Statuses), например domain.BlockingStatuses для проверки доступности
// - Окну времени (From, To): возвращаются бронирования, период которых пересекает [From, To)
// - Исключению одного бронирования (ExcludeBookingID) при переносе его дат
//
// Строки бронирований не блокируются: создатели сериализуются блокировкой строки
// автомобиля и exclusion-ограничением, а порядок блокировок остается
// "бронирование, затем автомобиль" для всех транзакций.
func (r *Repository) GetByVehicleWithFilter(ctx context.Context, filter domain.VehicleBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"vehicle_id": filter.VehicleID})

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statuses})
	}

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"return_date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"booking_date": *filter.To})
	}
	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeBookingID})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVehicleWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVehicleWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus переводит бронирование из статуса from в статус to (compare-and-swap).
// Если статус успел измениться после чтения, возвращает ErrStatusConflict.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking id=%d is no longer %s", ErrStatusConflict, id, from)
	}
	if err != nil {
		return nil, mapWriteError("UpdateStatus - execute update", err)
	}

	return booking, nil
}

// Complete переводит бронирование из Active в Completed и записывает итоги аренды
func (r *Repository) Complete(ctx context.Context, id int64, completion domain.BookingCompletion) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableBookings).
		Set("status", string(domain.StatusCompleted)).
		Set("actual_return_date", completion.ActualReturnDate).
		Set("late_fee", completion.LateFee).
		Set("total_amount", completion.TotalAmount)

	if completion.EndMileage != nil {
		updateBuilder = updateBuilder.Set("end_mileage", *completion.EndMileage)
	}

	query, args, err := updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(domain.StatusActive)}).
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Complete - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking id=%d is no longer %s", ErrStatusConflict, id, domain.StatusActive)
	}
	if err != nil {
		return nil, mapWriteError("Complete - execute update", err)
	}

	return booking, nil
}

// UpdateDetails обновляет даты, сумму и стартовый пробег бронирования.
// Колонку status этот метод не пишет; правка разрешена только для Pending и Confirmed.
func (r *Repository) UpdateDetails(ctx context.Context, id int64, upd domain.BookingDetailsUpdate) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableBookings).
		Set("booking_date", upd.BookingDate).
		Set("return_date", upd.ReturnDate).
		Set("total_amount", upd.TotalAmount)

	if upd.StartMileage != nil {
		updateBuilder = updateBuilder.Set("start_mileage", *upd.StartMileage)
	}

	query, args, err := updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		}).
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateDetails - build update query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking id=%d can no longer be edited", ErrStatusConflict, id)
	}
	if err != nil {
		return nil, mapWriteError("UpdateDetails - execute update", err)
	}

	return booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		status               string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.VehicleID,
		&booking.BookingDate,
		&booking.ReturnDate,
		&booking.ActualReturnDate,
		&booking.StartMileage,
		&booking.EndMileage,
		&booking.TotalAmount,
		&booking.LateFee,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// mapWriteError переводит ошибки ограничений PostgreSQL в ошибки репозитория.
// Исходная ошибка сохраняется в цепочке, чтобы txmanager мог распознать serialization failure.
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqCodeExclusionViolation:
			return fmt.Errorf("%w: %s: constraint %s", ErrOverlappingBooking, op, pqErr.Constraint)
		case pqCodeCheckViolation:
			return fmt.Errorf("%w: %s: constraint %s", ErrConstraintViolation, op, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}
