package models

type Gender string
type AgeRange string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"

	AgeRange10s  AgeRange = "10s"
	AgeRange20s  AgeRange = "20s"
	AgeRange30s  AgeRange = "30s"
	AgeRange40s  AgeRange = "40s"
	AgeRange50up AgeRange = "50+"
)

const (
	MinRating = 1
	MaxRating = 5
)
