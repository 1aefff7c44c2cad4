package shell

import (
	"strconv"
)

// commands is the REPL grammar. A fresh value is parsed for every line.
type commands struct {
	Add           AddCmd           `cmd:"" help:"Add a new contact."`
	View          ViewCmd          `cmd:"" help:"View a contact."`
	UpdatePhoneNo UpdatePhoneNoCmd `cmd:"" name:"update-phone-no" help:"Update the phone_no of a contact."`
	UpdateEmail   UpdateEmailCmd   `cmd:"" name:"update-email" help:"Update the email of a contact."`
	Delete        DeleteCmd        `cmd:"" help:"Delete a contact."`
	Export        ExportCmd        `cmd:"" help:"Export contacts to a JSON or YAML file."`
	Import        ImportCmd        `cmd:"" help:"Import contacts from a JSON or YAML file."`
	List          ListCmd          `cmd:"" help:"List contacts ordered by name."`
	Quit          QuitCmd          `cmd:"" aliases:"exit" help:"Quit the REPL."`
}

// AddCmd inserts or replaces a contact
type AddCmd struct {
	Name    string `arg:"" help:"The name of the contact."`
	PhoneNo string `arg:"" name:"phone-no" help:"The phone_no of the contact."`
	Email   string `arg:"" help:"The email of the contact."`
}

// Run executes the add command.
func (c *AddCmd) Run(s *session) error {
	if err := s.shell.repo.Add(s.ctx, c.Name, c.PhoneNo, c.Email); err != nil {
		return err
	}
	s.println("Contact added successfully")
	return nil
}

// ViewCmd prints a single contact
type ViewCmd struct {
	Name string `arg:"" help:"The name of the contact."`
}

// Run executes the view command.
func (c *ViewCmd) Run(s *session) error {
	contact, err := s.shell.repo.Get(s.ctx, c.Name)
	if err != nil {
		return err
	}
	if contact == nil {
		s.unknownKey(c.Name)
		return nil
	}
	s.printContact(contact)
	return nil
}

// UpdatePhoneNoCmd replaces the phone number of an existing contact
type UpdatePhoneNoCmd struct {
	Name       string `arg:"" help:"The name of the contact."`
	NewPhoneNo string `arg:"" name:"new-phone-no" help:"The new phone_no of the contact."`
}

// Run executes the update-phone-no command.
func (c *UpdatePhoneNoCmd) Run(s *session) error {
	found, err := s.shell.repo.UpdatePhone(s.ctx, c.Name, c.NewPhoneNo)
	if err != nil {
		return err
	}
	if !found {
		s.unknownKey(c.Name)
		return nil
	}
	s.println("Contact updated successfully")
	return nil
}

// UpdateEmailCmd replaces the email of an existing contact
type UpdateEmailCmd struct {
	Name     string `arg:"" help:"The name of the contact."`
	NewEmail string `arg:"" name:"new-email" help:"The new email of the contact."`
}

// Run executes the update-email command.
func (c *UpdateEmailCmd) Run(s *session) error {
	found, err := s.shell.repo.UpdateEmail(s.ctx, c.Name, c.NewEmail)
	if err != nil {
		return err
	}
	if !found {
		s.unknownKey(c.Name)
		return nil
	}
	s.println("Contact updated successfully")
	return nil
}

// DeleteCmd removes a contact
type DeleteCmd struct {
	Name string `arg:"" help:"The name of the contact."`
}

// Run executes the delete command.
func (c *DeleteCmd) Run(s *session) error {
	removed, err := s.shell.repo.Delete(s.ctx, c.Name)
	if err != nil {
		return err
	}
	if removed == nil {
		s.unknownKey(c.Name)
		return nil
	}
	s.println("Contact deleted successfully")
	return nil
}

// ExportCmd writes every contact to a bulk file
type ExportCmd struct {
	Path string `arg:"" help:"The path of the file; .yaml or .yml selects YAML."`
}

// Run executes the export command.
func (c *ExportCmd) Run(s *session) error {
	if err := s.shell.repo.Export(s.ctx, c.Path); err != nil {
		return err
	}
	s.println("Contacts exported successfully")
	return nil
}

// ImportCmd upserts every contact from a bulk file
type ImportCmd struct {
	Path string `arg:"" help:"The path of the file; .yaml or .yml selects YAML."`
}

// Run executes the import command.
func (c *ImportCmd) Run(s *session) error {
	if err := s.shell.repo.Import(s.ctx, c.Path); err != nil {
		return err
	}
	s.println("Contacts imported successfully")
	return nil
}

// ListCmd prints one page of contacts. Values that do not parse as
// non-negative integers fall back to page 0 and the default page size.
type ListCmd struct {
	PageNo   string `arg:"" optional:"" name:"page-no" help:"Page no."`
	PageSize string `arg:"" optional:"" name:"page-size" help:"Page size."`
}

// Run executes the list command.
func (c *ListCmd) Run(s *session) error {
	pageNo := parseCount(c.PageNo, 0)
	pageSize := parseCount(c.PageSize, s.shell.pageSize)

	contacts, err := s.shell.repo.List(s.ctx, pageNo, pageSize)
	if err != nil {
		return err
	}

	for _, contact := range contacts {
		s.println("-------------")
		s.printContact(contact)
	}
	if len(contacts) > 0 {
		s.println("-------------")
	}
	return nil
}

func parseCount(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// QuitCmd ends the REPL
type QuitCmd struct{}

// Run executes the quit command.
func (c *QuitCmd) Run(s *session) error {
	s.println("Exiting...")
	s.quit = true
	return nil
}
