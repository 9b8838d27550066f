package submission

import (
	"fmt"

	"github.com/nishad/biosubmit/internal/dataset"
	"github.com/nishad/biosubmit/internal/errors"
	"github.com/nishad/biosubmit/internal/xmldoc"
)

// BuildActions builds the Action elements for the selected action. Only
// ActionAddData produces actions; any other action yields none.
func (c *Composer) BuildActions(params Params, ds *dataset.Dataset) ([]*xmldoc.Element, error) {
	switch params.Action {
	case ActionAddData:
		return c.buildAddData(ds)
	default:
		c.logger.Debug("no actions built", "action", string(params.Action))
		return nil, nil
	}
}

// buildAddData emits one AddData action per non-blank row, in row order.
// action_id and submitter_tracking_id are not set.
func (c *Composer) buildAddData(ds *dataset.Dataset) ([]*xmldoc.Element, error) {
	const op errors.Op = "submission.BuildActions"

	total := len(ds.Rows)
	actions := make([]*xmldoc.Element, 0, total)
	skipped := errors.NewSkipCounter(string(op))

	for i, raw := range ds.Rows {
		if raw == "" {
			skipped.Skip(fmt.Sprintf("row %d", i+1))
			continue
		}

		c.progress(i, total)

		values := dataset.SplitRow(raw)
		// recorded before generation so the row can resolve itself and earlier rows
		if name, ok := ds.Value(values, dataset.SampleNameField); ok {
			ds.Record(name, raw)
		}

		fragment, err := c.generator.Generate(ds, values)
		if err != nil {
			return nil, errors.E(op, errors.KindParse, err, fmt.Sprintf("row %d", i+1))
		}

		actions = append(actions, c.addDataAction(fragment))
	}

	skipped.Report(c.logger)
	return actions, nil
}

func (c *Composer) addDataAction(fragment *xmldoc.Element) *xmldoc.Element {
	return xmldoc.New("Action").Append(
		xmldoc.New("AddData").SetAttr("target_db", TargetDB).Append(
			xmldoc.New("Data").SetAttr("content_type", ContentType).Append(
				xmldoc.New("XmlContent").Append(fragment),
			),
			xmldoc.New("Identifier").Append(
				xmldoc.NewText("SPUID", c.org.SPUID).SetAttr("spuid_namespace", c.org.SPUIDNamespace),
			),
		),
	)
}
