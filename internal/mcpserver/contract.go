package mcpserver

// PaperFormatContract documents the JSON keys the loader recognises and how
// each one is interpreted.
const PaperFormatContract = `# Exhyte Paper Format

Each paper is one JSON file (extension ` + "`.json`" + `, any case) directly inside the
paper directory. The top-level value MUST be an object; files that are not valid
JSON objects are skipped and reported by the status endpoint. The file name stem
is the paper id.

## Recognised keys

Keys are tried in the order listed; the first usable value wins. Missing keys,
` + "`null`" + ` and values of the wrong type fall through to the next key.

| field     | keys (priority order)                                         | default            |
|-----------|---------------------------------------------------------------|--------------------|
| title     | ` + "`paper_title`, `title`" + `                                          | the file name      |
| authors   | ` + "`authors`" + ` (string, or list of strings / ` + "`{\"name\": ...}`" + ` objects) | empty          |
| published | ` + "`year`, `published`, `date`, `publication_date`" + `                 | unresolved         |
| topics    | ` + "`subject_area.areas`" + ` (strings or ` + "`{\"name\": ...}`" + ` objects)       | ` + "`[\"Unknown\"]`" + `      |
| link      | ` + "`link`, `resource_url`, `resource_link.answer`, `url`" + `           | none               |

Dates accept a bare year (` + "`2023`" + ` or ` + "`\"2023\"`" + `), ISO dates (` + "`2023-05-01`" + `), year and
month (` + "`2023-05`" + `), most written forms (` + "`May 1, 2023`" + `) and any text containing a
year between 1900 and 2099.

## Workflow sections

Survey generation expects, but does not require, the EXHYTE workflow stages:
Inputs to the Workflow, E1 Query Structuring, E2 Data Retrieval, E3 Knowledge
Assembly, H1 Hypothesis/Idea Generation, H2 Hypothesis or Idea Prioritization,
T1 Experimental Design Generation, T2 Iterative Refinement. Every key of the
file is passed to the model verbatim and is searchable by keyword.

## Example

` + "```" + `json
{
  "paper_title": "Autonomous agents for protein design",
  "authors": ["A. Researcher", {"name": "B. Scientist"}],
  "year": 2024,
  "subject_area": {"areas": ["Biology", "Chemistry"]},
  "resource_link": {"answer": "https://example.org/paper"},
  "E1": "Queries are decomposed into sub-goals ..."
}
` + "```" + `
`
