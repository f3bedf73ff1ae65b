package handler

import "portfolio-api/internal/validation"

const msgAtLeastOne = "At least one updatable field must be provided"

func idRule() validation.Rule {
	return validation.Param("id").UUID("Invalid id")
}

func dateRule(field, label string) *validation.Chain {
	return validation.Body(field).
		ISO8601(label + " must be a date in ISO 8601 format").
		UTC(label + " must be in UTC timezone")
}

func optionalDateRule(field, label string) *validation.Chain {
	return validation.Body(field).Optional().
		ISO8601(label + " must be a date in ISO 8601 format").
		UTC(label + " must be in UTC timezone")
}

func optionalString(field, label string) *validation.Chain {
	return validation.Body(field).Optional().String(label + " must be a string")
}

func skillsRule() *validation.Chain {
	return validation.Body("skills").
		Array("Skills must be an array").
		StringItems("Skill must be a string")
}

func optionalSkillsRule() *validation.Chain {
	return validation.Body("skills").Optional().
		Array("Skills must be an array").
		StringItems("Skill must be a string")
}

var educationCreateRules = []validation.Rule{
	validation.Body("school").String("School is required"),
	validation.Body("degree").String("Degree is required"),
	validation.Body("fieldOfStudy").String("Field of study is required"),
	validation.Body("description").String("Description is required"),
	dateRule("startDate", "Start date"),
	dateRule("endDate", "End date"),
}

var educationUpdateRules = []validation.Rule{
	idRule(),
	validation.AtLeastOneOf(msgAtLeastOne,
		"school", "degree", "fieldOfStudy", "description", "startDate", "endDate"),
	optionalString("school", "School"),
	optionalString("degree", "Degree"),
	optionalString("fieldOfStudy", "Field of study"),
	optionalString("description", "Description"),
	optionalDateRule("startDate", "Start date"),
	optionalDateRule("endDate", "End date"),
}

var experienceCreateRules = []validation.Rule{
	validation.Body("company").String("Company is required"),
	validation.Body("position").String("Position is required"),
	validation.Body("bulletPoints").
		Array("Bullet points must be an array").
		StringItems("Bullet point must be a string"),
	skillsRule(),
	dateRule("startDate", "Start date"),
	optionalDateRule("endDate", "End date"),
}

var experienceUpdateRules = []validation.Rule{
	idRule(),
	validation.AtLeastOneOf(msgAtLeastOne,
		"company", "position", "bulletPoints", "skills", "startDate", "endDate"),
	optionalString("company", "Company"),
	optionalString("position", "Position"),
	validation.Body("bulletPoints").Optional().
		Array("Bullet points must be an array").
		StringItems("Bullet point must be a string"),
	optionalSkillsRule(),
	optionalDateRule("startDate", "Start date"),
	optionalDateRule("endDate", "End date"),
}

var projectCreateRules = []validation.Rule{
	validation.Body("name").String("Name is required"),
	validation.Body("description").String("Description is required"),
	skillsRule(),
	validation.Body("githubUrl").Optional().URL("GitHub URL must be a valid URL"),
	validation.Body("websiteUrl").Optional().URL("Website URL must be a valid URL"),
	validation.Body("imageUrl").Optional().URL("Image URL must be a valid URL"),
}

var projectUpdateRules = []validation.Rule{
	idRule(),
	validation.AtLeastOneOf(msgAtLeastOne,
		"name", "description", "skills", "githubUrl", "websiteUrl", "imageUrl"),
	optionalString("name", "Name"),
	optionalString("description", "Description"),
	optionalSkillsRule(),
	validation.Body("githubUrl").Optional().URL("GitHub URL must be a valid URL"),
	validation.Body("websiteUrl").Optional().URL("Website URL must be a valid URL"),
	validation.Body("imageUrl").Optional().URL("Image URL must be a valid URL"),
}

var loginRules = []validation.Rule{
	validation.Body("email").Email("Invalid email"),
	validation.Body("password").String("Password is required"),
}
