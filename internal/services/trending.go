package services

import (
	"ladle/internal/db"
	"ladle/internal/models"
	"ladle/internal/utils"
	"log"
	"sync"
	"time"
)

// TrendingService recomputes the time-decayed popularity score of recipes
// asynchronously. The score column only orders listings; the like/comment
// numbers shown to users always come from live recounts.
type TrendingService struct {
	queue   chan uint // recipe IDs waiting for a recompute
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	trendingService *TrendingService
	once            sync.Once
)

// GetTrendingService returns the singleton, starting the worker on first use.
func GetTrendingService() *TrendingService {
	once.Do(func() {
		trendingService = &TrendingService{
			queue:   make(chan uint, 1000),
			pending: make(map[uint]bool),
		}
		go trendingService.worker()
	})
	return trendingService
}

// ScheduleUpdate queues a recipe for a score recompute, deduplicating
// requests already waiting.
func (s *TrendingService) ScheduleUpdate(recipeID uint) {
	s.mu.Lock()
	if s.pending[recipeID] {
		s.mu.Unlock()
		return
	}
	s.pending[recipeID] = true
	s.mu.Unlock()

	select {
	case s.queue <- recipeID:
	default:
		// Queue full, drop the request and clear the pending mark
		s.mu.Lock()
		delete(s.pending, recipeID)
		s.mu.Unlock()
		log.Printf("trending queue full, skipping recipe %d", recipeID)
	}
}

func (s *TrendingService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case recipeID := <-s.queue:
			batch = append(batch, recipeID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *TrendingService) processBatch(recipeIDs []uint) {
	for _, recipeID := range recipeIDs {
		s.updateRecipeScore(recipeID)

		s.mu.Lock()
		delete(s.pending, recipeID)
		s.mu.Unlock()
	}
}

func (s *TrendingService) updateRecipeScore(recipeID uint) {
	var recipe models.Recipe
	if err := db.DB.First(&recipe, recipeID).Error; err != nil {
		log.Printf("trending: recipe %d not found, skipping", recipeID)
		return
	}

	var likes int64
	db.DB.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&likes)

	var favorites int64
	db.DB.Model(&models.Favorite{}).Where("recipe_id = ?", recipeID).Count(&favorites)

	var comments int64
	db.DB.Model(&models.Comment{}).Where("recipe_id = ?", recipeID).Count(&comments)

	newScore := utils.CalculateScore(
		recipe.CreatedAt,
		int(likes),
		int(favorites),
		int(comments),
		recipe.Views,
	)

	if err := db.DB.Model(&recipe).UpdateColumn("score", int(newScore)).Error; err != nil {
		log.Printf("trending: failed to update score for recipe %d: %v", recipeID, err)
	}
}

// StartScheduledScoreUpdate refreshes scores for recent and top recipes once
// a day at 03:00, so decay applies even to recipes nobody touches.
func (s *TrendingService) StartScheduledScoreUpdate() {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("Refreshing trending scores...")
			s.refreshHotRecipes()
			log.Println("Trending score refresh done")
		}
	}()
}

// refreshHotRecipes updates recipes from the last 7 days plus the current
// top 30, deduplicated while walking.
func (s *TrendingService) refreshHotRecipes() {
	processed := make(map[uint]bool)
	count := 0

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	var recent []models.Recipe
	db.DB.Where("created_at >= ?", sevenDaysAgo).Select("id").Find(&recent)
	for _, r := range recent {
		s.updateRecipeScore(r.ID)
		processed[r.ID] = true
		count++
	}

	var top []models.Recipe
	db.DB.Order("score DESC").Limit(30).Select("id").Find(&top)
	for _, r := range top {
		if !processed[r.ID] {
			s.updateRecipeScore(r.ID)
			count++
		}
	}

	log.Printf("Refreshed trending score for %d recipes", count)
}
