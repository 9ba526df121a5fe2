package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
)

const (
	fallbackCategoryIcon  = "Cube"
	fallbackCategoryColor = "text-foreground"
	mutedSeverityColor    = "bg-muted text-muted-foreground"
)

var categoryInfoMap = map[types.CategoryID]model.CategoryInfo{
	types.CategoryGPUHardware:  {Icon: "Cpu", Label: "GPU Hardware", Color: "text-accent"},
	types.CategoryNetworkDPU:   {Icon: "Network", Label: "Network & DPU", Color: "text-primary"},
	types.CategoryNVLink:       {Icon: "LinkSimple", Label: "NVLink/NVSwitch", Color: "text-accent"},
	types.CategorySoftware:     {Icon: "Code", Label: "Software & Orchestration", Color: "text-primary"},
	types.CategoryPowerCooling: {Icon: "Lightning", Label: "Power & Cooling", Color: "text-destructive"},
	types.CategoryStorageIO:    {Icon: "Database", Label: "Storage & I/O", Color: "text-primary"},
	types.CategorySecurity:     {Icon: "ShieldCheck", Label: "Security", Color: "text-warning"},
	types.CategoryCompliance:   {Icon: "CheckCircle", Label: "Compliance", Color: "text-muted-foreground"},
	types.CategoryAIOperations: {Icon: "Brain", Label: "AI Operations", Color: "text-accent"},
}

var severityColorMap = map[types.Severity]string{
	types.SeverityCritical: "bg-destructive text-destructive-foreground",
	types.SeverityHigh:     "bg-warning text-warning-foreground",
	types.SeverityMedium:   "bg-accent text-accent-foreground",
	types.SeverityLow:      mutedSeverityColor,
}

// CategoryInfoOf returns display metadata for a category. Unknown categories never fail:
// they get the raw id as label with a generic icon and the default color.
func CategoryInfoOf(category types.CategoryID) model.CategoryInfo {
	info, ok := categoryInfoMap[category]
	if !ok {
		return model.CategoryInfo{
			ID:       category,
			Label:    category.String(),
			Icon:     fallbackCategoryIcon,
			Color:    fallbackCategoryColor,
			Fallback: true,
		}
	}
	info.ID = category
	return info
}

// SeverityColor maps a severity to its style token. Unknown severities get the muted token.
func SeverityColor(severity types.Severity) string {
	if color, ok := severityColorMap[severity]; ok {
		return color
	}
	return mutedSeverityColor
}

// QuadrantOf places a risk on the likelihood x impact matrix. Scores outside [0,10] are an
// integrity violation and return ErrOutOfRange.
func QuadrantOf(risk *model.Risk) (types.Quadrant, error) {
	if err := types.ValidateScore(risk.Likelihood); err != nil {
		return types.Quadrant{}, goerr.Wrap(model.ErrOutOfRange, "likelihood out of range",
			goerr.V(RiskIDKey, risk.ID), goerr.V("likelihood", risk.Likelihood))
	}
	if err := types.ValidateScore(risk.ImpactScore); err != nil {
		return types.Quadrant{}, goerr.Wrap(model.ErrOutOfRange, "impact score out of range",
			goerr.V(RiskIDKey, risk.ID), goerr.V("impact_score", risk.ImpactScore))
	}

	for _, q := range types.AllQuadrants() {
		if q.Contains(risk.Likelihood, risk.ImpactScore) {
			return q, nil
		}
	}

	// unreachable while AllQuadrants partitions the score square
	return types.Quadrant{}, goerr.Wrap(model.ErrOutOfRange, "no quadrant matched", goerr.V(RiskIDKey, risk.ID))
}

// Classification bundles the display metadata derived for one risk
type Classification struct {
	Category      model.CategoryInfo `json:"category"`
	SeverityColor string             `json:"severityColor"`
	Quadrant      types.QuadrantName `json:"quadrant"`
}

// Classify derives all display metadata of a risk
func Classify(risk *model.Risk) (Classification, error) {
	q, err := QuadrantOf(risk)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		Category:      CategoryInfoOf(risk.Category),
		SeverityColor: SeverityColor(risk.Severity),
		Quadrant:      q.Name,
	}, nil
}
