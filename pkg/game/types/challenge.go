package types

import "fmt"

// Challenge is one question: a label and two candidate images, one correct.
// Challenges are immutable once generated.
type Challenge struct {
	CorrectLabel   string `json:"correctLabel"`
	CorrectImage   string `json:"correctImage"`
	IncorrectImage string `json:"incorrectImage"`
	CorrectSlot    int    `json:"correctSlot"`
	Phase          Phase  `json:"phase"`
}

func NewChallenge(label, correctImage, incorrectImage string, correctSlot int, phase Phase) (*Challenge, error) {
	c := &Challenge{
		CorrectLabel:   label,
		CorrectImage:   correctImage,
		IncorrectImage: incorrectImage,
		CorrectSlot:    correctSlot,
		Phase:          phase,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Challenge) Validate() error {
	if c.CorrectLabel == "" {
		return fmt.Errorf("challenge has no label")
	}
	if c.CorrectImage == "" || c.IncorrectImage == "" {
		return fmt.Errorf("challenge %s is missing an image", c.CorrectLabel)
	}
	if c.CorrectImage == c.IncorrectImage {
		return fmt.Errorf("challenge %s uses the same image twice", c.CorrectLabel)
	}
	if c.CorrectSlot != 0 && c.CorrectSlot != 1 {
		return fmt.Errorf("challenge %s has invalid slot %d", c.CorrectLabel, c.CorrectSlot)
	}
	return nil
}

// Images returns the image references in display order.
func (c *Challenge) Images() [2]string {
	if c.CorrectSlot == 0 {
		return [2]string{c.CorrectImage, c.IncorrectImage}
	}
	return [2]string{c.IncorrectImage, c.CorrectImage}
}
