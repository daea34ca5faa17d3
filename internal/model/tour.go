package model

import "time"

// Tour represents a row in the `tours` table.  Only the columns the
// public listing endpoint needs are mapped here.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – unique tour name.
//  Duration       – length of the tour in days.
//  MaxGroupSize   – maximum number of participants.
//  Difficulty     – easy, medium or difficult.
//  Price          – price per participant.
//  RatingsAverage – average review rating.
//  RatingsQuantity – number of reviews.
//  CreatedAt      – timestamp of creation.
type Tour struct {
    ID              uint64    // tours.id
    Name            string    // tours.name
    Duration        int       // tours.duration
    MaxGroupSize    int       // tours.max_group_size
    Difficulty      string    // tours.difficulty
    Price           float64   // tours.price
    RatingsAverage  float64   // tours.ratings_average
    RatingsQuantity int       // tours.ratings_quantity
    CreatedAt       time.Time // tours.created_at
}
