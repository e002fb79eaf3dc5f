package rating

import "time"

// Rating is one participant's score for the other side of a completed task.
type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TaskID    int64     `json:"task_id" gorm:"not null;uniqueIndex:idx_ratings_task_rater,priority:1"`
	RaterID   int64     `json:"rater_id" gorm:"not null;uniqueIndex:idx_ratings_task_rater,priority:2"`
	RateeID   int64     `json:"ratee_id" gorm:"not null;index"`
	Score     int       `json:"score" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Rating) TableName() string { return "ratings" }
