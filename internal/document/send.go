package document

import "github.com/gofiber/fiber/v2"

// Send writes doc as a download.
func Send(c *fiber.Ctx, doc *Document) error {
	c.Attachment(doc.Name)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Body)
}
