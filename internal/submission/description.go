package submission

import (
	"github.com/nishad/biosubmit/internal/config"
	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

// BuildDescription builds the document header from configuration and the
// run parameters. Optional fields are omitted entirely when their source
// value is empty. The dataset is not read.
func (c *Composer) BuildDescription(params Params, _ *dataset.Dataset) *xmldoc.Element {
	desc := xmldoc.New("Description").
		AppendTextIf("Comment", params.Comment)

	if c.submitter != nil {
		desc.Append(buildSubmitter(c.submitter))
	}

	desc.Append(buildOrganization(c.org))

	if params.Hold != "" {
		desc.Append(xmldoc.New("Hold").SetAttr("release_date", params.Hold))
	}

	desc.Append(xmldoc.New("SubmissionSoftware").SetAttr("version", SoftwareVersion))
	return desc
}

func buildSubmitter(s *config.SubmitterConfig) *xmldoc.Element {
	el := xmldoc.New("Submitter").SetAttrIf("account_id", s.AccountID)
	if s.Contact != nil && s.Contact.Email != "" {
		el.Append(xmldoc.New("Contact").SetAttr("email", s.Contact.Email))
	}
	return el
}

func buildOrganization(org config.OrganizationConfig) *xmldoc.Element {
	el := xmldoc.New("Organization").SetAttr("type", org.Type)

	// role carries org_id, group_id and url with it, set or not
	if org.Role != "" {
		el.SetAttr("role", org.Role).
			SetAttr("org_id", org.OrgID).
			SetAttr("group_id", org.GroupID).
			SetAttr("url", org.URL)
	}

	el.AppendText("Name", org.Name)
	if org.Address != nil {
		el.Append(buildAddress(org.Address))
	}
	el.Append(xmldoc.New("Contact").SetAttr("email", org.Contact.Email))
	return el
}

func buildAddress(a *config.AddressConfig) *xmldoc.Element {
	return xmldoc.New("Address").
		SetAttrIf("postal_code", a.PostalCode).
		AppendTextIf("Department", a.Department).
		AppendTextIf("Institution", a.Institution).
		AppendTextIf("Street", a.Street).
		AppendTextIf("City", a.City).
		AppendTextIf("Sub", a.State).
		AppendTextIf("Country", a.Country)
}
