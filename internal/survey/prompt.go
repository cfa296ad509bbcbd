package survey

// SystemPrompt is sent as the system message of every survey request.
const SystemPrompt = "You are a helpful assistant for writing scientific surveys."

// PromptTemplate is the instruction block placed before the paper bundle in
// the user message. It describes the EXHYTE workflow stages the generated
// survey must follow.
const PromptTemplate = `You are a scientific writer tasked with summarizing multiple LLM-guided workflow papers based on structured JSON files.

Each JSON file contains information about a discovery workflow with the following standardized sections:
1. Inputs to the Workflow
2. E1: Query Structuring
3. E2: Data Retrieval
4. E3: Knowledge Assembly
5. H1: Hypothesis/Idea Generation
6. H2: Hypothesis or Idea Prioritization
7. T1: Experimental Design Generation
8. T2: Iterative Refinement
9. Publication Details (title, authors, publication date, and link)

---

### OBJECTIVE
Generate a *scientific survey-style summary* that compares and synthesizes the workflows from all provided JSON files.

---

### OUTPUT REQUIREMENTS
Your output **must follow the exact same section order and headings** as the input schema, formatted as follows:

**Inputs to the Workflow** [Write one or more formal paragraphs integrating all JSONs that describe what users provided — goals, datasets, research context, or formal specifications. Cite papers using author and year.]

**E1: Query Structuring** [Summarize how queries or tasks were structured, reformulated, or decomposed. Cite all relevant papers.]

**E2: Data Retrieval** [Describe how relevant data, literature, or other sources were gathered or filtered. Cite all relevant papers.]

**E3: Knowledge Assembly** [Explain how structured knowledge was constructed, encoded, or represented. Cite all relevant papers.]

**H1: Hypothesis/Idea Generation** [Describe how the systems generated hypotheses or ideas, including tools or reasoning strategies. Cite all relevant papers.]

**H2: Hypothesis or Idea Prioritization** [Describe how hypotheses were ranked, filtered, or evaluated. Cite all relevant papers.]

**T1: Experimental Design Generation** [Summarize how experiments were planned or designed to test generated hypotheses. Cite all relevant papers.]

**T2: Iterative Refinement** [Describe any feedback loops or iterative improvement mechanisms used in the workflow. Cite all relevant papers.]

**Conclusion** [Provide an integrative summary comparing how the workflows collectively advance automated scientific discovery.]

**References** [List all papers, formatted as: Authors (Year). Title. Publication Date. Link.]

---

### ADDITIONAL RULES
1. Every section heading (Inputs to the Workflow, E1, E2, etc.) **must appear in the output** — even if only one paper contributes.
2. Each paragraph **must begin with a bolded heading**, as shown above.
3. Use **formal academic writing** — complete sentences, no bullet points.
4. Only use information contained in the JSON files.
5. Ensure in-text citations follow the form *(Author et al., Year)*.
6. Always include a final **References** section with full paper metadata.

---

### INPUT
Below are the JSON workflow descriptions:

### OUTPUT
A structured, stage-preserving, multi-paragraph scientific survey comparing the workflows, formatted according to the stage order above.`
