package model

import "propshoot/pkg/config"

// Drone photography is sold in two package sizes.
const (
	DroneTierSmall = 8
	DroneTierLarge = 20
)

// ServiceSelection is the bundle of services booked for one property.
// Counts are clamped by Normalized rather than rejected.
type ServiceSelection struct {
	Photography      bool `json:"photography" bson:"photography"`
	PhotoCount       int  `json:"photo_count" bson:"photo_count" validate:"gte=0,lte=1000"`
	DronePhotography bool `json:"drone_photography" bson:"drone_photography"`
	DronePhotoCount  int  `json:"drone_photo_count" bson:"drone_photo_count" validate:"gte=0"`

	StandardVideo            bool `json:"standard_video" bson:"standard_video"`
	StandardVideoDrone       bool `json:"standard_video_drone" bson:"standard_video_drone"`
	AgentPresentedVideo      bool `json:"agent_presented_video" bson:"agent_presented_video"`
	AgentPresentedVideoDrone bool `json:"agent_presented_video_drone" bson:"agent_presented_video_drone"`

	SocialMediaVideo          bool `json:"social_media_video" bson:"social_media_video"`
	SocialMediaPresentedVideo bool `json:"social_media_presented_video" bson:"social_media_presented_video"`

	FloorPlan            bool `json:"floor_plan" bson:"floor_plan"`
	FloorPlanVirtualTour bool `json:"floor_plan_virtual_tour" bson:"floor_plan_virtual_tour"`

	Bedrooms int `json:"bedrooms" bson:"bedrooms" validate:"gte=0,lte=50"`
}

// Normalized returns a copy with every count raised to its floor and the
// drone package snapped to one of the two tiers.
func (s ServiceSelection) Normalized() ServiceSelection {
	out := s
	out.PhotoCount = max(out.PhotoCount, config.MinPhotoCount)
	out.Bedrooms = max(out.Bedrooms, config.BaseBedrooms)
	if out.DronePhotoCount >= DroneTierLarge {
		out.DronePhotoCount = DroneTierLarge
	} else {
		out.DronePhotoCount = DroneTierSmall
	}
	return out
}

// ExtraBedrooms is the number of bedrooms above the base every rate is quoted for.
func (s ServiceSelection) ExtraBedrooms() int {
	return max(0, s.Bedrooms-config.BaseBedrooms)
}

// ExtraPhotos is the number of photos above the minimum package.
func (s ServiceSelection) ExtraPhotos() int {
	return max(0, s.PhotoCount-config.MinPhotoCount)
}

// IsEmpty reports whether no billable service is selected. Drone add-ons
// alone do not count because they need their parent video.
func (s ServiceSelection) IsEmpty() bool {
	return !s.Photography &&
		!s.DronePhotography &&
		!s.StandardVideo &&
		!s.AgentPresentedVideo &&
		!s.SocialMediaVideo &&
		!s.SocialMediaPresentedVideo &&
		!s.FloorPlan &&
		!s.FloorPlanVirtualTour
}
