package domain

// TrainingLoad derives the scalar load value for a workout from its duration
// in minutes and its 1-10 intensity rating. Inputs are validated by the
// caller. The migration backfill uses the same formula, so the stored value
// is always re-derivable from the other two fields.
func TrainingLoad(durationMinutes, intensity int) int {
	return durationMinutes * intensity
}
