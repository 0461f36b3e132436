package services

import "yoga_recommendation/catalog"

// scorePose computes the weighted similarity for one surviving pose.
// Benefits alignment carries 12 of the 16 weight points; the targeted
// problem lists are a secondary signal. The result is a weighted average
// of cosines, bounded in [-1, 1].
func scorePose(q *queryEmbeddings, pose *catalog.Pose) float64 {
	score := 0.0

	score += weightGoalsBenefits * CosineSimilarity(q.goals, pose.BenefitsEmbedding)
	score += weightPhysicalBenefits * CosineSimilarity(q.physical, pose.BenefitsEmbedding)
	score += weightMentalBenefits * CosineSimilarity(q.mental, pose.BenefitsEmbedding)

	score += weightPhysicalMatch * CosineSimilarity(q.physical, pose.TargetedPhysicalEmbedding)
	score += weightMentalMatch * CosineSimilarity(q.mental, pose.TargetedMentalEmbedding)

	return score / totalWeight
}
