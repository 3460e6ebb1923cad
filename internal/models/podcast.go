package models

// Show represents a podcast as described by the platform's show endpoint
type Show struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Publisher     string `json:"publisher"`
	TotalEpisodes int    `json:"total_episodes"`
}
