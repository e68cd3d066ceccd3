package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vecinosml-pc3/internal/config"
	"vecinosml-pc3/internal/db"
	"vecinosml-pc3/internal/models"
	"vecinosml-pc3/internal/repository"
)

const batchSize = 5000

// extrae el año del título estilo MovieLens: "Toy Story (1995)"
var yearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)

func main() {
	ratingsPath := flag.String("ratings", "ratings.csv", "ruta a ratings.csv")
	moviesPath := flag.String("movies", "movies.csv", "ruta a movies.csv")
	scale := flag.Float64("scale", 2, "multiplicador de rating (MovieLens 0.5..5 -> escala 1..10)")
	flag.Parse()

	cfg := config.Load()
	db.InitMongo(cfg)

	movieRepo := repository.NewMovieRepository()
	ratingRepo := repository.NewRatingRepository()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	if err := loadMovies(ctx, movieRepo, *moviesPath); err != nil {
		log.Fatalf("[loader] error cargando películas: %v", err)
	}
	if err := loadRatings(ctx, ratingRepo, *ratingsPath, *scale); err != nil {
		log.Fatalf("[loader] error cargando ratings: %v", err)
	}
}

func loadMovies(ctx context.Context, repo *repository.MovieRepository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // cabecera
		return err
	}

	var batch []models.MovieDoc
	total := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) < 3 {
			continue
		}

		id, err := strconv.Atoi(row[0])
		if err != nil {
			continue // ids inválidos se saltan
		}

		title := row[1]
		var year *int
		if m := yearRe.FindStringSubmatch(title); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil {
				year = &y
			}
		}

		batch = append(batch, models.MovieDoc{
			MovieID: id,
			Title:   title,
			Year:    year,
			Genres:  strings.Split(row[2], "|"),
		})
		total++

		if len(batch) >= batchSize {
			if err := repo.InsertMany(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := repo.InsertMany(ctx, batch); err != nil {
		return err
	}

	log.Printf("[loader] %d películas cargadas", total)
	return nil
}

func loadRatings(ctx context.Context, repo *repository.RatingRepository, path string, scale float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // cabecera
		return err
	}

	var batch []models.RatingDoc
	total := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) < 4 {
			continue
		}

		userID, err1 := strconv.Atoi(row[0])
		movieID, err2 := strconv.Atoi(row[1])
		rating, err3 := strconv.ParseFloat(row[2], 64)
		ts, err4 := strconv.ParseInt(row[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		// el feed puede traer filas repetidas por (userId, movieId);
		// el engine las colapsa con la regla del máximo al armar el store
		batch = append(batch, models.RatingDoc{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    rating * scale,
			Timestamp: ts,
		})
		total++

		if len(batch) >= batchSize {
			if err := repo.InsertMany(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := repo.InsertMany(ctx, batch); err != nil {
		return err
	}

	log.Printf("[loader] %d ratings cargados", total)
	return nil
}
