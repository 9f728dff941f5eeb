package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/formdesk/internal/database/repository"
)

var (
	demoForms    = []string{"Spring Casting Call", "New Submissions", "Brand Partnerships"}
	demoFirst    = []string{"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan", "Ivy", "Lucas", "Nora", "Owen"}
	demoLast     = []string{"Smith", "Garcia", "Chen", "Patel", "Okafor", "Nguyen", "Rossi", "Kim"}
	demoCities   = []string{"Austin", "Portland", "Denver", "Chicago", "Atlanta", "Phoenix"}
	demoStates   = []string{"TX", "OR", "CO", "IL", "GA", "AZ"}
	demoStatus   = []string{"pending", "approved", "rejected", "in progress"}
	demoMediums  = []string{"photography", "film", "video", "motion", "design"}
	demoWebsites = []string{"n/a", "https://portfolio.example.com/", "none"}
)

// SeedDemo inserts n demo submissions plus a small creator log. Ids and
// tokens derive from seed so repeated runs with the same seed collide
// instead of duplicating.
func SeedDemo(ctx context.Context, db *sql.DB, d repository.Dialect, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	subs := repository.NewSubmissionRepo(db, d)
	logs := repository.NewCreatorLogRepo(db, d)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		first := demoFirst[rng.Intn(len(demoFirst))]
		last := demoLast[rng.Intn(len(demoLast))]
		city := rng.Intn(len(demoCities))
		token := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("token:%d:%d", seed, i))).String()
		payload := map[string]any{
			"Token":           token,
			"Full Name":       first + " " + last,
			"Email":           fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last)),
			"Phone":           fmt.Sprintf("555-%03d-%04d", rng.Intn(1000), rng.Intn(10000)),
			"City":            demoCities[city],
			"State":           demoStates[city],
			"Medium":          demoMediums[rng.Intn(len(demoMediums))],
			"Status":          demoStatus[rng.Intn(len(demoStatus))],
			"Day Rate":        fmt.Sprintf("$%d.00", 200+rng.Intn(1800)),
			"Follower Count":  rng.Intn(250000),
			"Has Agent":       rng.Intn(2) == 0,
			"Website":         demoWebsites[rng.Intn(len(demoWebsites))],
			"Submission Date": base.AddDate(0, 0, i).Format("2006-01-02"),
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		rec := repository.Record{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("sub:%d:%d", seed, i))).String(),
			FormName:   demoForms[i%len(demoForms)],
			Submission: raw,
			CreatedAt:  base.Add(time.Duration(i) * 37 * time.Minute),
		}
		if err := subs.Insert(ctx, rec); err != nil {
			return err
		}
	}

	for i := 0; i < 3 && i < n; i++ {
		raw, err := json.Marshal(map[string]any{
			"Creator":  demoFirst[i] + " " + demoLast[i],
			"Email":    fmt.Sprintf("%s@example.com", strings.ToLower(demoFirst[i])),
			"Medium":   demoMediums[i],
			"Day Rate": fmt.Sprintf("%d.00", 500+100*i),
		})
		if err != nil {
			return err
		}
		rec := repository.Record{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("log:%d:%d", seed, i))).String(),
			FormName:   "Creator Log",
			Submission: raw,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := logs.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
