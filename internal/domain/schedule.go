// internal/domain/schedule.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekday is a calendar day name as it appears in generated schedules.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the weekdays in calendar order, Monday first.
var Week = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ExercisePlanItem is one exercise prescribed for a day.
type ExercisePlanItem struct {
	ID         string `bson:"id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Sets       int    `bson:"sets" json:"sets"`
	Reps       int    `bson:"reps,omitempty" json:"reps,omitempty"`         // Zero for timed exercises
	Duration   int    `bson:"duration,omitempty" json:"duration,omitempty"` // Minutes, set instead of Reps when the score model times the exercise
	BodyPart   string `bson:"bodyPart" json:"body_part"`
	Difficulty string `bson:"difficulty" json:"difficulty"`
}

// DaySchedule is the plan for a single training day.
type DaySchedule struct {
	Day       Weekday            `bson:"day" json:"day"`
	Focus     []string           `bson:"focus" json:"focus"`
	Exercises []ExercisePlanItem `bson:"exercises" json:"exercises"` // At most 6 entries
}

// WeeklySchedule holds one DaySchedule per selected weekday, in calendar order.
type WeeklySchedule []DaySchedule

// ScheduleRecord is a generated weekly plan kept as history for a user.
type ScheduleRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            string             `bson:"userId" json:"userId"`
	RequestID         string             `bson:"requestId" json:"requestId"`
	Profile           UserProfile        `bson:"profile" json:"profile"`
	VocabularyVersion string             `bson:"vocabularyVersion" json:"vocabularyVersion"`
	Strategy          string             `bson:"strategy" json:"strategy"` // Load estimation strategy that produced sets/reps
	Schedule          WeeklySchedule     `bson:"schedule" json:"schedule"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
