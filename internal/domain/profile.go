package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is the user's primary training goal.
type Goal string

const (
	GoalWeightLoss        Goal = "weight_loss"
	GoalMuscleGain        Goal = "muscle_gain"
	GoalEndurance         Goal = "endurance"
	GoalFlexibility       Goal = "flexibility"
	GoalWeightMaintenance Goal = "weight_maintenance"
)

// Experience is the user's self-reported training experience.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// UserProfile is the input of schedule generation. It is built once per request and never mutated.
type UserProfile struct {
	Goal        Goal       `bson:"goal" json:"goal"`
	Experience  Experience `bson:"experience" json:"experience"`
	Age         int        `bson:"age" json:"age"`
	DaysPerWeek int        `bson:"daysPerWeek" json:"days_per_week"`
	Equipment   []string   `bson:"equipment,omitempty" json:"equipment,omitempty"`
}

// EncodedProfile is the numeric projection of a UserProfile fed to the prediction models.
type EncodedProfile struct {
	GoalCode       int `json:"goal_code"`
	ExperienceCode int `json:"experience_code"`
	AgeGroup       int `json:"age_group"`
	DaysPerWeek    int `json:"days_per_week"`
}

// StoredProfile is a profile saved by a user, used for the weekly regeneration job.
type StoredProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"` // Subject of the access token
	Profile   UserProfile        `bson:"profile" json:"profile"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
