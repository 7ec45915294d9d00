// cmd/seed/main.go
// Loads player rows into the configured database, either from the
// baseball_data.json dataset or from a legacy MySQL players table.
// Descriptions are left unset; run cmd/describe afterwards.
//
// Usage:
//
//	go run ./cmd/seed -file data/baseball_data.json -truncate
//	MYSQL_DSN="user:pass@tcp(host:3306)/stats?parseTime=true" go run ./cmd/seed -mysql
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/padraicbc/batstats/config"
	bundb "github.com/padraicbc/batstats/db"
	"github.com/padraicbc/batstats/models"
)

const batchSize = 500

func main() {
	file := flag.String("file", "data/baseball_data.json", "JSON dataset to load")
	fromMySQL := flag.Bool("mysql", false, "copy from the MySQL players table at MYSQL_DSN instead of -file")
	truncate := flag.Bool("truncate", false, "delete existing players first")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	bdb := bundb.Setup(cfg)
	defer bdb.Close()

	if err := bundb.CreateTables(ctx, bdb); err != nil {
		log.Fatalf("create tables: %v", err)
	}
	store := bundb.NewPlayerStore(bdb)

	if *truncate {
		n, err := store.DeleteAll(ctx)
		if err != nil {
			log.Fatalf("truncate: %v", err)
		}
		log.Printf("deleted %d existing players", n)
	}

	var (
		total int
		err   error
	)
	if *fromMySQL {
		total, err = seedFromMySQL(ctx, cfg, store)
	} else {
		total, err = seedFromFile(ctx, *file, store)
	}
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("%d players loaded", total)
}

func seedFromFile(ctx context.Context, path string, store *bundb.PlayerStore) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	players, err := readDataset(f)
	if err != nil {
		return 0, err
	}

	total := 0
	for start := 0; start < len(players); start += batchSize {
		end := min(start+batchSize, len(players))
		n, err := store.Insert(ctx, players[start:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func seedFromMySQL(ctx context.Context, cfg *config.Config, store *bundb.PlayerStore) (int, error) {
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/stats?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return 0, err
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		return 0, err
	}
	log.Println("connected to MySQL")

	rows, err := myDB.QueryContext(ctx,
		`SELECT player_name, position, games, at_bat, runs, hits, double_2b, third_baseman,
		        home_run, run_batted_in, a_walk, strikeouts, stolen_base, caught_stealing,
		        avg, on_base_percentage, slugging_percentage, on_base_plus_slugging, description
		 FROM players ORDER BY id`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Player
	total := 0
	for rows.Next() {
		var (
			p           models.Player
			position    sql.NullString
			caught      sql.NullInt64
			description sql.NullString
		)
		if err := rows.Scan(&p.Name, &position, &p.Games, &p.AtBat, &p.Runs, &p.Hits,
			&p.Doubles, &p.Triples, &p.HomeRuns, &p.RBI, &p.Walks, &p.Strikeouts,
			&p.StolenBases, &caught, &p.Avg, &p.OBP, &p.SLG, &p.OPS, &description); err != nil {
			return total, err
		}
		p.Position = nullStr(position)
		p.CaughtStealing = nullInt(caught)
		p.Description = nullStr(description)

		batch = append(batch, p)
		if len(batch) >= batchSize {
			n, err := store.Insert(ctx, batch)
			if err != nil {
				return total, err
			}
			total += n
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	n, err := store.Insert(ctx, batch)
	return total + n, err
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}
