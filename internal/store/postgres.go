package store

import (
    "context"
    "crypto/sha256"
    "database/sql"
    "encoding/hex"
    "encoding/json"
    "errors"
    "time"

    _ "github.com/jackc/pgx/v5/stdlib"

    "github.com/yourorg/listing-api/normalize"
)

type Store struct{ DB *sql.DB }

func Open(dsn string) (*Store, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil { return nil, err }
    db.SetMaxOpenConns(10)
    db.SetMaxIdleConns(5)
    db.SetConnMaxLifetime(30 * time.Minute)
    return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS properties (
            record_id        TEXT PRIMARY KEY,
            title            TEXT NOT NULL,
            property_type    TEXT NOT NULL,
            prefecture       TEXT NOT NULL DEFAULT '',
            ward             TEXT NOT NULL DEFAULT '',
            location         TEXT NOT NULL DEFAULT '',
            building_name    TEXT NOT NULL DEFAULT '',
            address          TEXT NOT NULL DEFAULT '',
            nearest_station  TEXT NOT NULL DEFAULT '',
            walking_minutes  SMALLINT,
            train_lines      JSONB,
            lat              DOUBLE PRECISION,
            lon              DOUBLE PRECISION,
            rent             BIGINT,
            area_sqm         DOUBLE PRECISION,
            details          JSONB,
            viable           BOOLEAN NOT NULL DEFAULT false,
            created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
            last_fetch_at    TIMESTAMPTZ
        );`,
        `CREATE INDEX IF NOT EXISTS idx_properties_ward ON properties(ward);`,
        `CREATE INDEX IF NOT EXISTS idx_properties_type ON properties(property_type);`,
        `CREATE TABLE IF NOT EXISTS property_images (
            property_id  TEXT NOT NULL REFERENCES properties(record_id) ON DELETE CASCADE,
            href         TEXT NOT NULL,
            position     INTEGER NOT NULL,
            PRIMARY KEY (property_id, position)
        );`,
        `CREATE TABLE IF NOT EXISTS raw_snapshots (
            id             BIGSERIAL PRIMARY KEY,
            record_id      TEXT NOT NULL,
            payload        JSONB NOT NULL,
            payload_sha256 TEXT NOT NULL,
            fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
        `CREATE INDEX IF NOT EXISTS idx_snapshots_record ON raw_snapshots(record_id, fetched_at DESC);`,
    }
    for _, q := range stmts {
        if _, err := s.DB.ExecContext(ctx, q); err != nil { return err }
    }
    return nil
}

// UpsertProperty writes one normalized property, its ordered image set and
// the raw payload it was derived from, in a single transaction. Identical
// consecutive snapshots are still appended; dedup by payload_sha256 is a
// read-time concern.
func (s *Store) UpsertProperty(ctx context.Context, p normalize.Property, rawPayload []byte) error {
    if s.DB == nil { return errors.New("nil db") }
    lines, err := json.Marshal(p.TrainLines)
    if err != nil { return err }
    details, err := json.Marshal(p.Details)
    if err != nil { return err }

    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil { return err }
    defer func() { if err != nil { _ = tx.Rollback() } }()

    _, err = tx.ExecContext(ctx, `
        INSERT INTO properties (record_id, title, property_type, prefecture, ward, location, building_name,
            address, nearest_station, walking_minutes, train_lines, lat, lon, rent, area_sqm, details, viable, last_fetch_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17, now())
        ON CONFLICT (record_id)
        DO UPDATE SET title=EXCLUDED.title, property_type=EXCLUDED.property_type, prefecture=EXCLUDED.prefecture,
            ward=EXCLUDED.ward, location=EXCLUDED.location, building_name=EXCLUDED.building_name,
            address=EXCLUDED.address, nearest_station=EXCLUDED.nearest_station,
            walking_minutes=EXCLUDED.walking_minutes, train_lines=EXCLUDED.train_lines,
            lat=EXCLUDED.lat, lon=EXCLUDED.lon, rent=EXCLUDED.rent, area_sqm=EXCLUDED.area_sqm,
            details=EXCLUDED.details, viable=EXCLUDED.viable, updated_at=now(), last_fetch_at=now()`,
        p.ID, p.Title, string(p.Type), p.Prefecture, p.Ward, p.Location, p.BuildingName,
        p.Address, p.NearestStation, nullInt(p.WalkingMinutes), string(lines),
        nullCoord(p.Coordinates, true), nullCoord(p.Coordinates, false),
        nullInt(p.Rent), nullFloat(p.Area), string(details), p.Viable(),
    )
    if err != nil { return err }

    if _, err = tx.ExecContext(ctx, `DELETE FROM property_images WHERE property_id=$1`, p.ID); err != nil { return err }
    for i, href := range p.Images {
        if href == "" { continue }
        if _, err = tx.ExecContext(ctx, `INSERT INTO property_images (property_id, href, position) VALUES ($1,$2,$3)`, p.ID, href, i); err != nil { return err }
    }

    if len(rawPayload) > 0 {
        sum := sha256.Sum256(rawPayload)
        if _, err = tx.ExecContext(ctx, `
            INSERT INTO raw_snapshots (record_id, payload, payload_sha256)
            VALUES ($1,$2,$3)`, p.ID, string(rawPayload), hex.EncodeToString(sum[:])); err != nil {
            return err
        }
    }

    err = tx.Commit()
    return err
}

// ViableProperties reads back the most recently synced viable rows, images
// included, in updated-at order. Used as a fallback listing source when the
// upstream API is unreachable.
func (s *Store) ViableProperties(ctx context.Context, limit int) ([]normalize.Property, error) {
    if limit <= 0 { limit = 500 }
    rows, err := s.DB.QueryContext(ctx, `
        SELECT record_id, title, property_type, prefecture, ward, location, building_name,
               address, nearest_station, walking_minutes, train_lines, lat, lon, rent, area_sqm, details, updated_at
        FROM properties WHERE viable ORDER BY updated_at DESC LIMIT $1`, limit)
    if err != nil { return nil, err }
    defer rows.Close()

    var out []normalize.Property
    for rows.Next() {
        var p normalize.Property
        var walk sql.NullInt64
        var lat, lon, area sql.NullFloat64
        var rent sql.NullInt64
        var lines, details []byte
        var ptype string
        if err := rows.Scan(&p.ID, &p.Title, &ptype, &p.Prefecture, &p.Ward, &p.Location, &p.BuildingName,
            &p.Address, &p.NearestStation, &walk, &lines, &lat, &lon, &rent, &area, &details, &p.UpdatedAt); err != nil {
            return nil, err
        }
        p.Type = normalize.PropertyType(ptype)
        p.Source = "database"
        if walk.Valid { v := int(walk.Int64); p.WalkingMinutes = &v }
        if rent.Valid { v := int(rent.Int64); p.Rent = &v }
        if area.Valid { v := area.Float64; p.Area = &v }
        if lat.Valid && lon.Valid {
            p.Coordinates = &normalize.Coordinates{Lat: lat.Float64, Lng: lon.Float64}
        }
        if len(lines) > 0 { _ = json.Unmarshal(lines, &p.TrainLines) }
        if len(details) > 0 { _ = json.Unmarshal(details, &p.Details) }
        p.Images = []string{}
        out = append(out, p)
    }
    if err := rows.Err(); err != nil { return nil, err }

    for i := range out {
        imgs, err := s.propertyImages(ctx, out[i].ID)
        if err != nil { return nil, err }
        out[i].Images = imgs
    }
    return out, nil
}

func (s *Store) propertyImages(ctx context.Context, recordID string) ([]string, error) {
    rows, err := s.DB.QueryContext(ctx, `SELECT href FROM property_images WHERE property_id=$1 ORDER BY position`, recordID)
    if err != nil { return nil, err }
    defer rows.Close()
    imgs := []string{}
    for rows.Next() {
        var href string
        if err := rows.Scan(&href); err != nil { return nil, err }
        imgs = append(imgs, href)
    }
    return imgs, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
    if v == nil { return sql.NullInt64{} }
    return sql.NullInt64{Int64: int64(*v), Valid: true}
}
func nullFloat(v *float64) sql.NullFloat64 {
    if v == nil { return sql.NullFloat64{} }
    return sql.NullFloat64{Float64: *v, Valid: true}
}
func nullCoord(c *normalize.Coordinates, lat bool) sql.NullFloat64 {
    if c == nil { return sql.NullFloat64{} }
    if lat { return sql.NullFloat64{Float64: c.Lat, Valid: true} }
    return sql.NullFloat64{Float64: c.Lng, Valid: true}
}
