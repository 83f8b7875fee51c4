package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"

	"github.com/example/carpool-matching/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) SaveOffer(ctx context.Context, c *models.TripCandidate) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO rides(id, driver_id, pickup, destination, pickup_time, price, status, created_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.CounterpartyID, c.Pickup, c.Destination, c.Time, c.Price, c.Status, c.CreatedAt)
	return err
}

func (p *PostgresStore) SaveRequest(ctx context.Context, c *models.TripCandidate) error {
	pickup, _ := json.Marshal(models.NewLocationRef(c.Pickup))
	dest, _ := json.Marshal(models.NewLocationRef(c.Destination))
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO passenger_requests(id, passenger_id, pickup_location, destination_location, pickup_time, price, status, created_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.CounterpartyID, pickup, dest, c.Time, c.Price, c.Status, c.CreatedAt)
	return err
}

func (p *PostgresStore) PendingOffers(ctx context.Context) ([]models.TripCandidate, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT r.id, r.driver_id, COALESCE(u.full_name,''), COALESCE(u.phone,''),
		        r.pickup, r.destination, r.pickup_time, COALESCE(r.price,0), r.created_at, r.status
		 FROM rides r
		 LEFT JOIN app_users u ON u.id = r.driver_id
		 WHERE r.status = 'pending'
		 ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TripCandidate
	for rows.Next() {
		var c models.TripCandidate
		if err := rows.Scan(&c.ID, &c.CounterpartyID, &c.CounterpartyName, &c.CounterpartyPhone,
			&c.Pickup, &c.Destination, &c.Time, &c.Price, &c.CreatedAt, &c.Status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *PostgresStore) PendingRequests(ctx context.Context) ([]models.TripCandidate, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT pr.id, pr.passenger_id, COALESCE(u.full_name,''), COALESCE(u.phone,''),
		        pr.pickup_location, pr.destination_location, pr.pickup_time, COALESCE(pr.price,0), pr.created_at, pr.status
		 FROM passenger_requests pr
		 LEFT JOIN app_users u ON u.id = pr.passenger_id
		 WHERE pr.status = 'pending'
		 ORDER BY pr.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TripCandidate
	for rows.Next() {
		var c models.TripCandidate
		var pickupRaw, destRaw []byte
		if err := rows.Scan(&c.ID, &c.CounterpartyID, &c.CounterpartyName, &c.CounterpartyPhone,
			&pickupRaw, &destRaw, &c.Time, &c.Price, &c.CreatedAt, &c.Status); err != nil {
			return nil, err
		}
		c.Pickup = decodeLocation(pickupRaw)
		c.Destination = decodeLocation(destRaw)
		out = append(out, c)
	}
	return out, rows.Err()
}

// decodeLocation handles both column shapes the legacy schema carries:
// jsonb {"address": "..."} written by newer clients and plain text written
// by older ones.
func decodeLocation(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var ref models.LocationRef
	if err := json.Unmarshal(raw, &ref); err == nil {
		return ref.Address()
	}
	return string(raw)
}

func (p *PostgresStore) UpdateOfferStatus(ctx context.Context, id string, status models.Status) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE rides SET status=$1, updated_at=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (p *PostgresStore) UpdateRequestStatus(ctx context.Context, id, driverID string, status models.Status) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE passenger_requests SET driver_id=$1, status=$2, updated_at=$3 WHERE id=$4`,
		driverID, status, time.Now(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
