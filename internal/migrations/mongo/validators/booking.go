package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var clock = bson.M{
	"bsonType": "string",
	"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
}

var calendarDate = bson.M{
	"bsonType": "string",
	"pattern":  `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`,
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"order_id",
			"address",
			"postcode",
			"date",
			"start_time",
			"end_time",
			"agent",
			"services",
			"work_minutes",
			"subtotal",
			"total",
			"currency",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"order_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"property_index": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 200,
			},

			"postcode": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 10,
			},

			"date":       calendarDate,
			"start_time": clock,
			"end_time":   clock,

			"agent": bson.M{
				"bsonType": "object",
				"required": []string{"name", "email"},
			},

			"services": bson.M{
				"bsonType": "object",
			},

			"work_minutes": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"subtotal":        bson.M{"bsonType": integer, "minimum": 0},
			"discount_amount": bson.M{"bsonType": integer, "minimum": 0},
			"total":           bson.M{"bsonType": integer, "minimum": 0},

			"currency": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 3,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
