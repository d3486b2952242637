package model

import "fmt"

func (c *Commit) ShortID() string {
	if len(c.ID) < 8 {
		return c.ID
	}
	return c.ID[:8]
}

func (c *Commit) String() string {
	return fmt.Sprintf("%s %s (%s)", c.ShortID(), c.Message, c.Author)
}
