package service

import "github.com/sst-platform/backend/internal/models"

// ResolveRule picks the rule governing a report from the active rule set.
//
// A rule matches when its report type is either nil (catch-all) or equal
// to the report's type, and its risk level is either nil or equal to the
// report's band. Among matches the most specific rule wins: an exact
// type match beats a catch-all, and within the same specificity an exact
// risk match beats a generic one. Remaining ties go to the lowest rule
// id, so resolution is deterministic regardless of query order.
func ResolveRule(rules []models.Rule, report models.Report) (models.Rule, bool) {
	var (
		best      models.Rule
		bestScore = -1
	)
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if r.ReportTypeID != nil && *r.ReportTypeID != report.ReportTypeID {
			continue
		}
		if r.RiskLevel != nil && *r.RiskLevel != report.RiskLevel {
			continue
		}

		score := 0
		if r.ReportTypeID != nil {
			score += 2
		}
		if r.RiskLevel != nil {
			score++
		}
		if score > bestScore || (score == bestScore && r.ID < best.ID) {
			best = r
			bestScore = score
		}
	}
	return best, bestScore >= 0
}

// ownershipChain lists the roles tried in order when resolving the
// initial owner of a case. Admin is the terminal fallback.
func ownershipChain(rule models.Rule) []models.Role {
	chain := []models.Role{rule.PrincipalRole}
	if rule.BackupRole1 != nil {
		chain = append(chain, *rule.BackupRole1)
	}
	if rule.BackupRole2 != nil {
		chain = append(chain, *rule.BackupRole2)
	}
	return append(chain, models.RoleAdmin)
}

// nextEscalationRole returns the role ownership moves to on the next
// escalation step: first backup, then second backup, then Admin. A rule
// without the backup for the current step yields no target and the case
// stays with its owner.
func nextEscalationRole(rule models.Rule, escalationCount int) (models.Role, bool) {
	switch escalationCount {
	case 0:
		if rule.BackupRole1 == nil {
			return "", false
		}
		return *rule.BackupRole1, true
	case 1:
		if rule.BackupRole2 == nil {
			return "", false
		}
		return *rule.BackupRole2, true
	}
	return models.RoleAdmin, true
}
