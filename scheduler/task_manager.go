package scheduler

import (
	"log"
	"sync"
	"time"

	"offertrack/models"
)

// RankFunc performs a synchronous scrape-and-rank for one product.
type RankFunc func(productID int) ([]models.RankedOffer, error)

// TaskManager runs scrape-and-rank jobs asynchronously on a bounded worker
// pool. Tasks are kept in memory; finished ones are swept after an hour.
type TaskManager struct {
	tasks     map[string]*models.RankTask
	taskQueue chan *models.RankTask
	rankFunc  RankFunc
	mutex     sync.RWMutex
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewTaskManager creates a task manager with maxWorkers concurrent workers.
func NewTaskManager(rankFunc RankFunc, maxWorkers int) *TaskManager {
	tm := &TaskManager{
		tasks:     make(map[string]*models.RankTask),
		taskQueue: make(chan *models.RankTask, 100),
		rankFunc:  rankFunc,
		stopChan:  make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		go tm.worker()
	}
	go tm.cleanupLoop()

	log.Printf("Task manager started with %d workers", maxWorkers)
	return tm
}

// SubmitTask queues a new rank task for a product
func (tm *TaskManager) SubmitTask(productID int) *models.RankTask {
	task := models.NewRankTask(productID)

	tm.mutex.Lock()
	tm.tasks[task.ID] = task
	tm.mutex.Unlock()

	select {
	case tm.taskQueue <- task:
		log.Printf("Task %s submitted for product %d", task.ID, productID)
	default:
		task.Fail("task queue is full")
		log.Printf("Failed to submit task %s - queue full", task.ID)
	}

	return task
}

// GetTask returns a task by ID
func (tm *TaskManager) GetTask(taskID string) (*models.RankTask, bool) {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	task, exists := tm.tasks[taskID]
	return task, exists
}

// GetStats returns task counts per status
func (tm *TaskManager) GetStats() map[string]int {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	stats := map[string]int{}
	for _, task := range tm.tasks {
		stats[string(task.Status)]++
	}
	stats["total"] = len(tm.tasks)
	return stats
}

// Stop shuts down the workers. Queued tasks are abandoned.
func (tm *TaskManager) Stop() {
	tm.stopOnce.Do(func() {
		close(tm.stopChan)
	})
}

func (tm *TaskManager) worker() {
	for {
		select {
		case <-tm.stopChan:
			return
		case task := <-tm.taskQueue:
			tm.runTask(task)
		}
	}
}

func (tm *TaskManager) runTask(task *models.RankTask) {
	tm.mutex.Lock()
	task.Start()
	tm.mutex.Unlock()

	result, err := tm.rankFunc(task.ProductID)

	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	if err != nil {
		task.Fail(err.Error())
		log.Printf("Task %s failed: %v", task.ID, err)
		return
	}
	task.Complete(result)
	log.Printf("Task %s completed with %d offers", task.ID, len(result))
}

// cleanupLoop sweeps finished tasks older than an hour.
func (tm *TaskManager) cleanupLoop() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-tm.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-1 * time.Hour)
			tm.mutex.Lock()
			for id, task := range tm.tasks {
				if task.IsFinished() && task.CompletedAt != nil && task.CompletedAt.Before(cutoff) {
					delete(tm.tasks, id)
				}
			}
			tm.mutex.Unlock()
		}
	}
}
