package workers

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gorm.io/gorm"

	"github.com/camden-git/photovaultbackend/config"
	"github.com/camden-git/photovaultbackend/media"
	"github.com/camden-git/photovaultbackend/models"
	"github.com/camden-git/photovaultbackend/utils"
)

// TaskType constants
const (
	TaskThumbnail = "thumbnail"
	TaskPreview   = "preview"
	TaskMetadata  = "metadata"
)

type PhotoJob struct {
	PhotoID  uint
	Filename string
	FileSize int64
	TaskType string
}

type PhotoProcessor struct {
	JobQueue chan PhotoJob
	Config   config.Config
	DB       *gorm.DB
	Store    media.Store
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewPhotoProcessor(cfg config.Config, db *gorm.DB, store media.Store, queueSize, numWorkers int) *PhotoProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &PhotoProcessor{
		JobQueue: make(chan PhotoJob, queueSize),
		Config:   cfg,
		DB:       db,
		Store:    store,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("Started %d photo processing worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

// worker processes jobs from the queue until stopped
func (pp *PhotoProcessor) worker(id int) {
	defer pp.Wg.Done()

	log.Printf("Photo worker %d started", id)
	for {
		select {
		case job, ok := <-pp.JobQueue:
			if !ok {
				log.Printf("Photo worker %d stopping: Job queue closed", id)
				return
			}

			pendingKey := fmt.Sprintf("%d:%s", job.PhotoID, job.TaskType)
			log.Printf("Worker %d: Received job type '%s' for photo %d (%s)", id, job.TaskType, job.PhotoID, job.Filename)

			switch job.TaskType {
			case TaskThumbnail:
				pp.processThumbnailTask(job)
			case TaskPreview:
				pp.processPreviewTask(job)
			case TaskMetadata:
				pp.processMetadataTask(job)
			default:
				log.Printf("Worker %d: ERROR unknown task type '%s' for photo %d", id, job.TaskType, job.PhotoID)
			}

			pp.Mutex.Lock()
			delete(pp.Pending, pendingKey)
			pp.Mutex.Unlock()

		case <-pp.StopChan:
			log.Printf("Photo worker %d stopping: Stop signal received", id)
			return
		}
	}
}

// originalFullPath resolves the stored original for a job, verifying it
// still exists on disk before derivative work starts
func (pp *PhotoProcessor) originalFullPath(job PhotoJob) (string, error) {
	fullPath, err := pp.Store.GetFullPath(job.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path for %s: %w", job.Filename, err)
	}
	if _, statErr := os.Stat(fullPath); os.IsNotExist(statErr) {
		return "", fmt.Errorf("original file not found: %w", statErr)
	} else if statErr != nil {
		return "", fmt.Errorf("failed to stat original file: %w", statErr)
	}
	return fullPath, nil
}

// processThumbnailTask generates the thumb_ artifact next to the original
func (pp *PhotoProcessor) processThumbnailTask(job PhotoJob) {
	originalPath, err := pp.originalFullPath(job)
	if err != nil {
		log.Printf("Worker: Skipping thumbnail task for photo %d: %v", job.PhotoID, err)
		return
	}

	destPath, err := pp.Store.GetFullPath(models.ThumbnailPrefix + job.Filename)
	if err != nil {
		log.Printf("Worker: ERROR resolving thumbnail path for photo %d: %v", job.PhotoID, err)
		return
	}

	if genErr := utils.GenerateThumbnail(originalPath, destPath, pp.Config.ThumbnailMaxSize); genErr != nil {
		log.Printf("Worker: ERROR thumbnail generation failed for photo %d: %v", job.PhotoID, genErr)
		return
	}
	log.Printf("Worker: Generated thumbnail for photo %d", job.PhotoID)
}

// processPreviewTask generates the preview_ artifact for large originals.
// Small files are served directly so no preview is produced for them
func (pp *PhotoProcessor) processPreviewTask(job PhotoJob) {
	if job.FileSize <= models.PreviewSizeThreshold {
		log.Printf("Worker: Skipping preview task for photo %d: file below size threshold", job.PhotoID)
		return
	}

	originalPath, err := pp.originalFullPath(job)
	if err != nil {
		log.Printf("Worker: Skipping preview task for photo %d: %v", job.PhotoID, err)
		return
	}

	destPath, err := pp.Store.GetFullPath(models.PreviewPrefix + job.Filename)
	if err != nil {
		log.Printf("Worker: ERROR resolving preview path for photo %d: %v", job.PhotoID, err)
		return
	}

	if genErr := utils.GeneratePreview(originalPath, destPath, pp.Config.PreviewMaxWidth); genErr != nil {
		log.Printf("Worker: ERROR preview generation failed for photo %d: %v", job.PhotoID, genErr)
		return
	}
	log.Printf("Worker: Generated preview for photo %d", job.PhotoID)
}

// processMetadataTask probes dimensions and the EXIF capture time and
// writes them back to the row
func (pp *PhotoProcessor) processMetadataTask(job PhotoJob) {
	originalPath, err := pp.originalFullPath(job)
	if err != nil {
		log.Printf("Worker: Skipping metadata task for photo %d: %v", job.PhotoID, err)
		return
	}

	info, probeErr := utils.ProbeImage(originalPath)
	if probeErr != nil {
		log.Printf("Worker: ERROR extracting metadata for photo %d: %v", job.PhotoID, probeErr)
		return
	}

	updates := map[string]interface{}{
		"width":    info.Width,
		"height":   info.Height,
		"taken_at": info.TakenAt,
	}
	result := pp.DB.Model(&models.Photo{}).Where("id = ?", job.PhotoID).Updates(updates)
	if result.Error != nil {
		log.Printf("Worker: ERROR updating metadata for photo %d: %v", job.PhotoID, result.Error)
		return
	}
	log.Printf("Worker: Extracted metadata for photo %d (%dx%d)", job.PhotoID, info.Width, info.Height)
}

// QueueJob queues a specific task if not already pending
func (pp *PhotoProcessor) QueueJob(job PhotoJob) bool {
	// use composite key: "photoID:taskType"
	pendingKey := fmt.Sprintf("%d:%s", job.PhotoID, job.TaskType)

	pp.Mutex.Lock()
	if pp.Pending[pendingKey] {
		pp.Mutex.Unlock()
		return false
	}

	pp.Pending[pendingKey] = true
	pp.Mutex.Unlock()

	select {
	case pp.JobQueue <- job:
		log.Printf("Queued task '%s' for photo %d", job.TaskType, job.PhotoID)
		return true
	default:
		log.Printf("WARNING: Photo processing job queue full. Failed to queue task '%s' for photo %d", job.TaskType, job.PhotoID)
		pp.Mutex.Lock()
		delete(pp.Pending, pendingKey)
		pp.Mutex.Unlock()
		return false
	}
}

// QueueAllTasks queues thumbnail, preview and metadata work for a newly
// uploaded photo
func (pp *PhotoProcessor) QueueAllTasks(photo *models.Photo) {
	for _, task := range []string{TaskThumbnail, TaskPreview, TaskMetadata} {
		pp.QueueJob(PhotoJob{
			PhotoID:  photo.ID,
			Filename: photo.Filename,
			FileSize: photo.FileSize,
			TaskType: task,
		})
	}
}

func (pp *PhotoProcessor) Stop() {
	log.Println("Stopping photo processor workers...")
	close(pp.StopChan)
	pp.Wg.Wait()
	log.Println("All photo processor workers stopped")
}
