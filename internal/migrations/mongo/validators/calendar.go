package validators

import "go.mongodb.org/mongo-driver/bson"

var BlockedDayValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "date", "created_at"},
		"properties": bson.M{
			"_id":  bson.M{"bsonType": "string"},
			"date": calendarDate,
			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var DiscountCodeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "code", "percentage", "active", "times_used", "created_at"},
		"properties": bson.M{
			"_id": bson.M{"bsonType": "string"},
			"code": bson.M{
				"bsonType": "string",
				"pattern":  `^[A-Z0-9]{3,32}$`,
			},
			"percentage": bson.M{
				"bsonType": integer,
				"minimum":  1,
				"maximum":  100,
			},
			"active":     bson.M{"bsonType": "bool"},
			"max_uses":   bson.M{"bsonType": integer, "minimum": 0},
			"times_used": bson.M{"bsonType": integer, "minimum": 0},
			"expires_at": calendarDate,
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "date", "start_time", "expires_at"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"date":       calendarDate,
			"start_time": clock,
			"expires_at": bson.M{"bsonType": "date"},
		},
	},
}
