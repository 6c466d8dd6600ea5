package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"order-consolidation/internal/domain"
)

const orderColumns = `id, name,
	sender_name, sender_location, sender_lat, sender_lng,
	recipient_name, recipient_location, recipient_lat, recipient_lng,
	date_created, last_modified`

// filterClause matches everything when both patterns are empty.
const filterClause = `(($1 = '' AND $2 = '')
	OR ($1 <> '' AND (sender_location ILIKE $1 ESCAPE '\' OR recipient_location ILIKE $1 ESCAPE '\'))
	OR ($2 <> '' AND recipient_name ILIKE $2 ESCAPE '\'))`

// OrderRepo represents order repository.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Name,
		&o.Sender.Name, &o.Sender.Location, &o.Sender.Point.Lat, &o.Sender.Point.Lng,
		&o.Recipient.Name, &o.Recipient.Location, &o.Recipient.Point.Lat, &o.Recipient.Point.Lng,
		&o.DateCreated, &o.LastModified)
	return o, err
}

// syncIDSequence moves the id sequence past an explicitly inserted id so
// later inserts never draw it. The sequence is never moved backwards.
const syncIDSequence = `
SELECT setval(s.seq, GREATEST($1::bigint, COALESCE(pg_sequence_last_value(s.seq), 0)))
FROM (SELECT pg_get_serial_sequence('orders', 'id')::regclass AS seq) s`

// Create inserts an order and returns the stored row. A positive o.ID is kept
// and a non-zero o.DateCreated is used as the creation stamp. Otherwise the
// store assigns both.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) (domain.Order, error) {
	var created *time.Time
	if !o.DateCreated.IsZero() {
		t := o.DateCreated.UTC()
		created = &t
	}
	args := []any{o.Name,
		o.Sender.Name, o.Sender.Location, o.Sender.Point.Lat, o.Sender.Point.Lng,
		o.Recipient.Name, o.Recipient.Location, o.Recipient.Point.Lat, o.Recipient.Point.Lng,
		created,
	}
	if o.ID <= 0 {
		out, err := scanOrder(r.db.QueryRow(ctx, `INSERT INTO orders(name,
			sender_name, sender_location, sender_lat, sender_lng,
			recipient_name, recipient_location, recipient_lat, recipient_lng,
			date_created, last_modified)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,
			COALESCE($10::timestamptz, now()), GREATEST(now(), COALESCE($10::timestamptz, now())))
		RETURNING `+orderColumns, args...))
		if err != nil {
			return domain.Order{}, mapErr("create order", err)
		}
		return out, nil
	}

	var out domain.Order
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = scanOrder(tx.QueryRow(ctx, `INSERT INTO orders(name,
			sender_name, sender_location, sender_lat, sender_lng,
			recipient_name, recipient_location, recipient_lat, recipient_lng,
			date_created, last_modified, id)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,
			COALESCE($10::timestamptz, now()), GREATEST(now(), COALESCE($10::timestamptz, now())), $11)
		RETURNING `+orderColumns, append(args, o.ID)...))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, syncIDSequence, o.ID)
		return err
	})
	if err != nil {
		return domain.Order{}, mapErr(fmt.Sprintf("create order %d", o.ID), err)
	}
	return out, nil
}

// Get - returns order by its ID, or nil when it does not exist.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, mapErr(fmt.Sprintf("get order %d", id), err)
	}
	return &o, nil
}

// Update applies a partial update and returns the new row, or nil when the order does not exist.
func (r *OrderRepo) Update(ctx context.Context, p domain.OrderPatch) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `
        UPDATE orders
        SET
            name               = COALESCE($2, name),
            sender_name        = COALESCE($3, sender_name),
            sender_location    = COALESCE($4, sender_location),
            sender_lat         = COALESCE($5, sender_lat),
            sender_lng         = COALESCE($6, sender_lng),
            recipient_name     = COALESCE($7, recipient_name),
            recipient_location = COALESCE($8, recipient_location),
            recipient_lat      = COALESCE($9, recipient_lat),
            recipient_lng      = COALESCE($10, recipient_lng),
            last_modified      = GREATEST(now(), date_created)
        WHERE id = $1
        RETURNING `+orderColumns,
		p.ID, p.Name,
		p.SenderName, p.SenderLocation, p.SenderLat, p.SenderLng,
		p.RecipientName, p.RecipientLocation, p.RecipientLat, p.RecipientLng,
	))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, mapErr(fmt.Sprintf("update order %d", p.ID), err)
	}
	return &o, nil
}

// Delete removes an order and reports whether a row was affected.
func (r *OrderRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, mapErr(fmt.Sprintf("delete order %d", id), err)
	}
	return ct.RowsAffected() > 0, nil
}

// List returns orders matching the filter ordered by id.
func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+filterClause+` ORDER BY id`,
		likePattern(f.Location), likePattern(f.Recipient))
	if err != nil {
		return nil, mapErr("list orders", err)
	}
	return collect(rows, 0)
}

// ListPaginated returns one page of orders matching the filter. page starts at 1.
func (r *OrderRepo) ListPaginated(ctx context.Context, f domain.OrderFilter, page, pageSize int) (domain.OrderPage, error) {
	out := domain.OrderPage{Page: page, PerPage: pageSize}
	loc, rcp := likePattern(f.Location), likePattern(f.Recipient)

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE `+filterClause, loc, rcp,
	).Scan(&total); err != nil {
		return out, mapErr("count orders", err)
	}
	out.TotalCount = total
	out.TotalPages = (total + pageSize - 1) / pageSize

	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+filterClause+` ORDER BY id LIMIT $3 OFFSET $4`,
		loc, rcp, pageSize, (page-1)*pageSize)
	if err != nil {
		return out, mapErr("list orders page", err)
	}
	items, err := collect(rows, pageSize)
	if err != nil {
		return out, err
	}
	out.Items = items
	return out, nil
}

func collect(rows pgx.Rows, capacity int) ([]domain.Order, error) {
	defer rows.Close()
	out := make([]domain.Order, 0, capacity)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, mapErr("scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate orders", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a substring into an ILIKE pattern. Blank input yields "".
func likePattern(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(s) + "%"
}
