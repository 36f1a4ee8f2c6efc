package catalog

import "propshoot/pkg/model"

type Service string

const (
	Photography               Service = "photography"
	DronePhotography          Service = "drone_photography"
	AgentPresentedVideo       Service = "agent_presented_video"
	StandardVideo             Service = "standard_video"
	AgentPresentedVideoDrone  Service = "agent_presented_video_drone"
	StandardVideoDrone        Service = "standard_video_drone"
	SocialMediaPresentedVideo Service = "social_media_presented_video"
	SocialMediaVideo          Service = "social_media_video"
	FloorPlanVirtualTour      Service = "floor_plan_virtual_tour"
	FloorPlan                 Service = "floor_plan"
)

// Unit selects which count of a selection a per-unit rate multiplies.
type Unit int

const (
	UnitNone Unit = iota
	UnitExtraBedroom
	UnitExtraPhoto
	UnitPhoto
)

func (u Unit) quantity(sel model.ServiceSelection) int {
	switch u {
	case UnitExtraBedroom:
		return sel.ExtraBedrooms()
	case UnitExtraPhoto:
		return sel.ExtraPhotos()
	case UnitPhoto:
		return sel.PhotoCount
	default:
		return 0
	}
}

type MinuteRate struct {
	Base    int
	PerUnit int
	Unit    Unit
}

type PriceRate struct {
	Base    Money
	PerUnit Money
	Unit    Unit
	// Tiers prices a package by drone photo count instead of Base.
	Tiers map[int]Money
	// BulkFrom applies BulkPercent off once the unit quantity reaches it.
	BulkFrom    int
	BulkPercent int
}

// Rule describes one service. Rules sharing a Group are mutually exclusive
// and the first selected one in table order wins. A rule with a Parent only
// counts when the parent rule counted.
type Rule struct {
	Service  Service
	Label    string
	Group    string
	Parent   Service
	Selected func(model.ServiceSelection) bool
	Minutes  MinuteRate
	Price    PriceRate
}

const (
	groupVideo      = "video"
	groupVideoDrone = "video_drone"
	groupSocial     = "social"
	groupFloorPlan  = "floor_plan"
)

// Rules is the service table in precedence order.
var Rules = []Rule{
	{
		Service:  Photography,
		Label:    "Photography",
		Selected: func(s model.ServiceSelection) bool { return s.Photography },
		Minutes:  MinuteRate{Base: 40, PerUnit: 5, Unit: UnitExtraPhoto},
		Price:    PriceRate{PerUnit: 650, Unit: UnitPhoto, BulkFrom: 100, BulkPercent: 10},
	},
	{
		Service:  DronePhotography,
		Label:    "Drone Photography",
		Selected: func(s model.ServiceSelection) bool { return s.DronePhotography },
		Minutes:  MinuteRate{Base: 25},
		Price: PriceRate{Tiers: map[int]Money{
			model.DroneTierSmall: Pounds(75),
			model.DroneTierLarge: Pounds(140),
		}},
	},
	{
		Service:  AgentPresentedVideo,
		Label:    "Agent Presented Video",
		Group:    groupVideo,
		Selected: func(s model.ServiceSelection) bool { return s.AgentPresentedVideo },
		Minutes:  MinuteRate{Base: 105, PerUnit: 10, Unit: UnitExtraBedroom},
		Price:    PriceRate{Base: Pounds(150), PerUnit: Pounds(25), Unit: UnitExtraBedroom},
	},
	{
		Service:  StandardVideo,
		Label:    "Unpresented Property Video",
		Group:    groupVideo,
		Selected: func(s model.ServiceSelection) bool { return s.StandardVideo },
		Minutes:  MinuteRate{Base: 40, PerUnit: 5, Unit: UnitExtraBedroom},
		Price:    PriceRate{Base: Pounds(100), PerUnit: Pounds(25), Unit: UnitExtraBedroom},
	},
	{
		Service:  AgentPresentedVideoDrone,
		Label:    "Drone Footage (with Agent Presented Video)",
		Group:    groupVideoDrone,
		Parent:   AgentPresentedVideo,
		Selected: func(s model.ServiceSelection) bool { return s.AgentPresentedVideoDrone },
		Minutes:  MinuteRate{Base: 25},
		Price:    PriceRate{Base: Pounds(65)},
	},
	{
		Service:  StandardVideoDrone,
		Label:    "Drone Footage (with Unpresented Video)",
		Group:    groupVideoDrone,
		Parent:   StandardVideo,
		Selected: func(s model.ServiceSelection) bool { return s.StandardVideoDrone },
		Minutes:  MinuteRate{Base: 25},
		Price:    PriceRate{Base: Pounds(65)},
	},
	{
		Service:  SocialMediaPresentedVideo,
		Label:    "Social Media Video (Presented)",
		Group:    groupSocial,
		Selected: func(s model.ServiceSelection) bool { return s.SocialMediaPresentedVideo },
		Minutes:  MinuteRate{Base: 60, PerUnit: 10, Unit: UnitExtraBedroom},
		Price:    PriceRate{Base: Pounds(150), PerUnit: Pounds(25), Unit: UnitExtraBedroom},
	},
	{
		Service:  SocialMediaVideo,
		Label:    "Social Media Video (Unpresented)",
		Group:    groupSocial,
		Selected: func(s model.ServiceSelection) bool { return s.SocialMediaVideo },
		Minutes:  MinuteRate{Base: 25, PerUnit: 5, Unit: UnitExtraBedroom},
		Price:    PriceRate{Base: Pounds(100), PerUnit: Pounds(25), Unit: UnitExtraBedroom},
	},
	{
		Service:  FloorPlanVirtualTour,
		Label:    "Floor Plan with Virtual Tour",
		Group:    groupFloorPlan,
		Selected: func(s model.ServiceSelection) bool { return s.FloorPlanVirtualTour },
		Minutes:  MinuteRate{Base: 45, PerUnit: 10, Unit: UnitExtraBedroom},
		Price:    PriceRate{Base: Pounds(140), PerUnit: Pounds(20), Unit: UnitExtraBedroom},
	},
	{
		Service:  FloorPlan,
		Label:    "Floor Plan",
		Group:    groupFloorPlan,
		Selected: func(s model.ServiceSelection) bool { return s.FloorPlan },
		Minutes:  MinuteRate{Base: 25, PerUnit: 5, Unit: UnitExtraBedroom},
		Price:    PriceRate{Base: Pounds(60), PerUnit: Pounds(15), Unit: UnitExtraBedroom},
	},
}
