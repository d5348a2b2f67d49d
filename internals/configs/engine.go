package configs

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EngineConfig groups the tunables of provisioning, attendance and the feedback finalizer.
type EngineConfig struct {
	// Roll number at or below which a non-FY student lands in batch 1.
	BatchMidpoint int
	// Ascending roll cutoffs for the FY three-way split.
	FYBatchCutoffs []int

	DefaultStudentPassword string
	DefaultFacultyPassword string
	BcryptCost             int

	SummaryCacheTTL time.Duration

	FinalizerEnabled bool
	FinalizerCron    string
}

func setDefaults() {
	viper.SetDefault("ROSTER_BATCH_MIDPOINT", 36)
	viper.SetDefault("ROSTER_FY_BATCH_CUTOFFS", "22,44")
	viper.SetDefault("DEFAULT_STUDENT_PASSWORD", "student@123")
	viper.SetDefault("DEFAULT_FACULTY_PASSWORD", "faculty@123")
	viper.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	viper.SetDefault("SUMMARY_CACHE_TTL", "30s")
	viper.SetDefault("FEEDBACK_FINALIZER_ENABLED", false)
	viper.SetDefault("FEEDBACK_FINALIZE_CRON", "10 0 * * *")
	viper.SetDefault("DB_SSLMODE", "require")
	viper.SetDefault("PORT", "3000")
}

// LoadEngineConfig must run after LoadEnv.
func LoadEngineConfig() EngineConfig {
	cfg := EngineConfig{
		BatchMidpoint:          viper.GetInt("ROSTER_BATCH_MIDPOINT"),
		DefaultStudentPassword: viper.GetString("DEFAULT_STUDENT_PASSWORD"),
		DefaultFacultyPassword: viper.GetString("DEFAULT_FACULTY_PASSWORD"),
		BcryptCost:             viper.GetInt("BCRYPT_COST"),
		SummaryCacheTTL:        viper.GetDuration("SUMMARY_CACHE_TTL"),
		FinalizerEnabled:       viper.GetBool("FEEDBACK_FINALIZER_ENABLED"),
		FinalizerCron:          viper.GetString("FEEDBACK_FINALIZE_CRON"),
	}

	cutoffs, err := ParseCutoffs(viper.GetString("ROSTER_FY_BATCH_CUTOFFS"))
	if err != nil || len(cutoffs) != 2 {
		log.Printf("[CONFIG] invalid ROSTER_FY_BATCH_CUTOFFS, fallback 22,44: %v", err)
		cutoffs = []int{22, 44}
	}
	cfg.FYBatchCutoffs = cutoffs

	if cfg.BatchMidpoint <= 0 {
		cfg.BatchMidpoint = 36
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return cfg
}

// ParseCutoffs parses "22,44" into a strictly ascending list of positive ints.
func ParseCutoffs(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if n <= 0 || (len(out) > 0 && n <= out[len(out)-1]) {
			return nil, strconv.ErrRange
		}
		out = append(out, n)
	}
	return out, nil
}
